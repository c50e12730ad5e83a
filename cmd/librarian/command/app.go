package command

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbookcopies"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbooktemplate"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/reconcileavailability"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/registerstudent"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/returnbookcopy"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/softdelete"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/snapshot"
)

// application is the wired library: one store, one gate, one snapshot loader and the observability
// collectors shared by all handlers.
type application struct {
	cfg     config.AppConfig
	obs     *observability
	storage *storage
	gate    shell.Gate
	loader  *snapshot.Loader
	now     func() time.Time
	closers []func() error
}

func newApplication(ctx context.Context, cfg config.AppConfig, logOutput io.Writer, now func() time.Time) (*application, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	permissions, err := cfg.GrantedPermissions()
	if err != nil {
		return nil, err
	}

	obs, err := newObservability(ctx, cfg.Observability, level, logOutput)
	if err != nil {
		return nil, err
	}

	app := &application{cfg: cfg, obs: obs, now: now, closers: []func() error{obs.shutdown}}

	opened, err := openStorage(ctx, cfg, obs)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}
	app.storage = opened
	app.closers = append(app.closers, opened.close)

	cache, closeCache, err := openSnapshotCache(ctx, cfg.Redis)
	if err != nil {
		obs.contextualLogger.WarnContext(ctx, "snapshot cache unavailable, using an in-process cache", "error", err.Error())
		cache, closeCache, _ = openSnapshotCache(ctx, config.RedisConfig{})
	}
	app.closers = append(app.closers, closeCache)

	app.gate = shell.NewGate(shell.NewStaticPermissions(permissions...), opened.connectivity)

	loaderOptions := []snapshot.Option{
		snapshot.WithCache(cache),
		snapshot.WithConnectivity(opened.connectivity),
		snapshot.WithClock(now),
		snapshot.WithContextualLogging(obs.contextualLogger),
		snapshot.WithLogging(obs.logger),
	}

	if obs.metrics != nil {
		loaderOptions = append(loaderOptions, snapshot.WithMetrics(obs.metrics))
	}

	if obs.tracing != nil {
		loaderOptions = append(loaderOptions, snapshot.WithTracing(obs.tracing))
	}

	app.loader, err = snapshot.NewLoader(opened.store, loaderOptions...)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}

	return app, nil
}

// Close releases the store connections, the cache client and flushes the telemetry, in reverse order.
func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil

	return errors.Join(errs...)
}

func (a *application) followUpRetryOptions(commandType string) []shell.RetryOption {
	options := []shell.RetryOption{shell.WithMaxAttempts(a.cfg.Storage.FollowUpAttempts)}

	if a.obs.metrics != nil {
		options = append(options, shell.WithMetrics(a.obs.metrics, commandType))
	}

	return options
}

func (a *application) borrowHandler() shell.CoreCommandHandler[borrowbookcopy.Command] {
	return borrowbookcopy.NewCommandHandler(a.storage.store, a.gate,
		borrowbookcopy.WithPolicy(a.cfg.BorrowingPolicy()),
		borrowbookcopy.WithRetryOptions(a.followUpRetryOptions(borrowbookcopy.Command{}.CommandType())...),
	)
}

func (a *application) returnHandler() shell.CoreCommandHandler[returnbookcopy.Command] {
	return returnbookcopy.NewCommandHandler(a.storage.store, a.gate,
		returnbookcopy.WithRetryOptions(a.followUpRetryOptions(returnbookcopy.Command{}.CommandType())...),
	)
}

func (a *application) addTemplateHandler() shell.CoreCommandHandler[addbooktemplate.Command] {
	return addbooktemplate.NewCommandHandler(a.storage.store, a.gate)
}

func (a *application) addCopiesHandler() shell.CoreCommandHandler[addbookcopies.Command] {
	return addbookcopies.NewCommandHandler(a.storage.store, a.gate)
}

func (a *application) registerStudentHandler() shell.CoreCommandHandler[registerstudent.Command] {
	return registerstudent.NewCommandHandler(a.storage.store, a.gate)
}

func (a *application) softDeleteHandler() shell.CoreCommandHandler[softdelete.Command] {
	return softdelete.NewCommandHandler(a.storage.store, a.gate)
}

func (a *application) reconcileHandler() shell.CoreCommandHandler[reconcileavailability.Command] {
	return reconcileavailability.NewCommandHandler(a.storage.store, a.gate)
}

// runCommand wraps the handler with logging, metrics and tracing and handles the command.
func runCommand[C shell.Command](
	ctx context.Context,
	app *application,
	handler shell.CoreCommandHandler[C],
	command C,
) (shell.HandlerResult, error) {
	options := []observable.CommandOption[C]{
		observable.WithCommandContextualLogging[C](app.obs.contextualLogger),
		observable.WithCommandLogging[C](app.obs.logger),
	}

	if app.obs.metrics != nil {
		options = append(options, observable.WithCommandMetrics[C](app.obs.metrics))
	}

	if app.obs.tracing != nil {
		options = append(options, observable.WithCommandTracing[C](app.obs.tracing))
	}

	wrapped, err := observable.NewCommandWrapper[C](handler, options...)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	return wrapped.Handle(ctx, command)
}

// runQuery wraps the handler with logging, metrics and tracing and handles the query.
func runQuery[Q shell.Query, R shell.QueryResult](
	ctx context.Context,
	app *application,
	handler shell.CoreQueryHandler[Q, R],
	query Q,
) (R, error) {
	options := []observable.QueryOption[Q, R]{
		observable.WithQueryContextualLogging[Q, R](app.obs.contextualLogger),
		observable.WithQueryLogging[Q, R](app.obs.logger),
	}

	if app.obs.metrics != nil {
		options = append(options, observable.WithQueryMetrics[Q, R](app.obs.metrics))
	}

	if app.obs.tracing != nil {
		options = append(options, observable.WithQueryTracing[Q, R](app.obs.tracing))
	}

	wrapped, err := observable.NewQueryWrapper[Q, R](handler, options...)
	if err != nil {
		var empty R
		return empty, err
	}

	return wrapped.Handle(ctx, query)
}
