package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

const (
	// SnapshotName is the cache key of the library collections.
	SnapshotName = "LibraryCollections"

	// snapshotSaveTimeout bounds the cache write so a slow cache can not stall an online read.
	snapshotSaveTimeout = 5 * time.Second
)

// ErrNilStore is returned when NewLoader is called without a store.
var ErrNilStore = errors.New("snapshot loader needs a document store")

// Loader implements shell.LoadsLibrarySnapshot.
type Loader struct {
	store            docstore.Reader
	cache            docstore.SnapshotCache
	connectivity     shell.ConnectivitySignal
	now              func() time.Time
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache enables offline reads. Without a cache, offline loads fail with core.ErrOffline.
func WithCache(cache docstore.SnapshotCache) Option {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithConnectivity sets the signal consulted before reading the store. Without it the store is always tried.
func WithConnectivity(connectivity shell.ConnectivitySignal) Option {
	return func(l *Loader) {
		l.connectivity = connectivity
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		l.now = now
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(l *Loader) {
		l.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector shell.TracingCollector) Option {
	return func(l *Loader) {
		l.tracingCollector = collector
	}
}

// WithContextualLogging sets the contextual logger.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(l *Loader) {
		l.contextualLogger = logger
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader reading from the given store.
func NewLoader(store docstore.Reader, options ...Option) (*Loader, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	loader := &Loader{
		store: store,
		now:   time.Now,
	}

	for _, option := range options {
		option(loader)
	}

	return loader, nil
}

// Load returns the current library snapshot with copy availability reconciled against the open loans.
func (l *Loader) Load(ctx context.Context) (shell.LibrarySnapshot, error) {
	start := l.now()
	ctx, span := l.startSpan(ctx)

	snapshot, source, err := l.load(ctx)
	if err != nil {
		l.finishSpan(span, shell.CommandStatusOf(err), start, err)
		return shell.LibrarySnapshot{}, err
	}

	corrections := core.ReconcileAvailability(snapshot.Collections.Copies, snapshot.Collections.Loans)
	for _, correction := range corrections {
		shell.LogWarn(ctx, l.logger, l.contextualLogger, shell.LogMsgAvailabilityCorrected,
			shell.LogAttrCopyID, correction.Copy.ID,
			"has_open_loan", correction.HasOpenLoan,
		)
	}
	snapshot.Collections = core.ApplyReconciliation(snapshot.Collections)

	shell.RecordSnapshotLoad(ctx, l.metricsCollector, source, len(corrections))
	l.finishSpan(span, shell.StatusSuccess, start, nil)

	return snapshot, nil
}

func (l *Loader) load(ctx context.Context) (shell.LibrarySnapshot, string, error) {
	if l.connectivity != nil && !l.connectivity.IsOnline(ctx) {
		snapshot, err := l.loadFromCache(ctx, core.ErrOffline)
		return snapshot, shell.SnapshotSourceCache, err
	}

	collections, err := shell.LoadCollections(ctx, l.store)
	if err != nil {
		if ctx.Err() != nil {
			return shell.LibrarySnapshot{}, "", err
		}

		snapshot, cacheErr := l.loadFromCache(ctx, err)
		return snapshot, shell.SnapshotSourceCache, cacheErr
	}

	loadedAt := l.now()
	shell.LogInfo(ctx, l.logger, l.contextualLogger, shell.LogMsgSnapshotLoaded,
		shell.LogAttrSource, shell.SnapshotSourceStore,
		shell.LogAttrCount, len(collections.Copies),
	)

	l.save(ctx, collections, loadedAt)

	return shell.LibrarySnapshot{Collections: collections, LoadedAt: loadedAt}, shell.SnapshotSourceStore, nil
}

// loadFromCache serves the cached snapshot. On a miss it returns missErr.
func (l *Loader) loadFromCache(ctx context.Context, missErr error) (shell.LibrarySnapshot, error) {
	if l.cache == nil {
		return shell.LibrarySnapshot{}, missErr
	}

	cached, err := l.cache.LoadSnapshot(ctx, SnapshotName)
	if err != nil {
		shell.LogError(ctx, l.logger, l.contextualLogger, shell.LogMsgSnapshotCacheError, shell.LogAttrError, err.Error())
		return shell.LibrarySnapshot{}, missErr
	}

	if cached == nil {
		return shell.LibrarySnapshot{}, missErr
	}

	collections, err := shell.DecodeCollections(cached.Data)
	if err != nil {
		shell.LogError(ctx, l.logger, l.contextualLogger, shell.LogMsgSnapshotCacheError, shell.LogAttrError, err.Error())
		return shell.LibrarySnapshot{}, missErr
	}

	shell.LogInfo(ctx, l.logger, l.contextualLogger, shell.LogMsgSnapshotServedFromCache,
		shell.LogAttrSource, shell.SnapshotSourceCache,
		shell.LogAttrSnapshotAge, l.now().Sub(cached.CreatedAt).Seconds(),
	)

	return shell.LibrarySnapshot{Collections: collections, LoadedAt: cached.CreatedAt, Stale: true}, nil
}

// save writes the uncorrected collections to the cache. Failures are logged, the read still succeeds.
func (l *Loader) save(ctx context.Context, collections core.Collections, loadedAt time.Time) {
	if l.cache == nil {
		return
	}

	data, err := shell.EncodeCollections(collections)
	if err != nil {
		shell.LogError(ctx, l.logger, l.contextualLogger, shell.LogMsgSnapshotSaveError, shell.LogAttrError, err.Error())
		return
	}

	snapshot, err := docstore.BuildSnapshot(SnapshotName, data, loadedAt)
	if err != nil {
		shell.LogError(ctx, l.logger, l.contextualLogger, shell.LogMsgSnapshotSaveError, shell.LogAttrError, err.Error())
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotSaveTimeout)
	defer cancel()

	if err := l.cache.SaveSnapshot(saveCtx, snapshot); err != nil {
		shell.LogError(ctx, l.logger, l.contextualLogger, shell.LogMsgSnapshotSaveError, shell.LogAttrError, err.Error())
	}
}

func (l *Loader) startSpan(ctx context.Context) (context.Context, shell.SpanContext) {
	if l.tracingCollector == nil {
		return ctx, nil
	}

	return l.tracingCollector.StartSpan(ctx, shell.SpanNameSnapshotLoad, map[string]string{})
}

func (l *Loader) finishSpan(span shell.SpanContext, status string, start time.Time, err error) {
	shell.FinishSpan(l.tracingCollector, span, status, l.now().Sub(start), err)
}
