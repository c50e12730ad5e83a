package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/docstore/postgresengine/internal/adapters"
)

const (
	defaultDocumentsTableName = "documents"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// DocumentStore stores JSON documents of all collections in one PostgreSQL table.
// It leverages a database adapter and supports customizable logging, metrics and tracing.
type DocumentStore struct {
	db               adapters.DBAdapter
	tableName        string
	newID            func() string
	logger           Logger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
	contextualLogger ContextualLogger
}

type documentRow struct {
	collection string
	id         string
	data       []byte
	updatedAt  time.Time
}

// NewDocumentStoreFromPGXPool creates a new DocumentStore using a pgx Pool with optional configuration.
func NewDocumentStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (DocumentStore, error) {
	if db == nil {
		return DocumentStore{}, docstore.ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewPGXAdapter(db), options...)
}

// NewDocumentStoreFromPGXPoolAndReplica creates a new DocumentStore that sends eventually consistent
// reads to the replica pool and everything else to the primary pool.
func NewDocumentStoreFromPGXPoolAndReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (DocumentStore, error) {
	if primary == nil || replica == nil {
		return DocumentStore{}, docstore.ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewPGXAdapterWithReplica(primary, replica), options...)
}

// NewDocumentStoreFromSQLDB creates a new DocumentStore using a sql.DB with optional configuration.
func NewDocumentStoreFromSQLDB(db *sql.DB, options ...Option) (DocumentStore, error) {
	if db == nil {
		return DocumentStore{}, docstore.ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewSQLAdapter(db), options...)
}

// NewDocumentStoreFromSQLX creates a new DocumentStore using a sqlx.DB with optional configuration.
func NewDocumentStoreFromSQLX(db *sqlx.DB, options ...Option) (DocumentStore, error) {
	if db == nil {
		return DocumentStore{}, docstore.ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewSQLXAdapter(db), options...)
}

func newDocumentStore(db adapters.DBAdapter, options ...Option) (DocumentStore, error) {
	s := DocumentStore{
		db:        db,
		tableName: defaultDocumentsTableName,
		newID:     uuid.NewString,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return DocumentStore{}, err
		}
	}

	return s, nil
}

// CreateSchema creates the documents table and its indexes if they do not exist yet.
func (s DocumentStore) CreateSchema(ctx context.Context) error {
	sqlQuery := s.buildCreateSchemaSQL()

	start := time.Now()
	if _, err := s.db.Exec(ctx, sqlQuery); err != nil {
		s.logError(ctx, logMsgCreateSchemaFailed, err)
		return errors.Join(docstore.ErrCreatingSchemaFailed, err)
	}

	s.logQueryWithDuration(ctx, sqlQuery, operationCreateSchema, time.Since(start))

	return nil
}

// Ping checks that the database answers.
func (s DocumentStore) Ping(ctx context.Context) error {
	rows, err := s.db.QueryPrimary(ctx, "SELECT 1")
	if err != nil {
		return err
	}

	return rows.Close()
}

// Get returns a single document or docstore.ErrDocumentNotFound.
func (s DocumentStore) Get(ctx context.Context, collection docstore.CollectionString, id docstore.DocumentIDString) (docstore.Document, error) {
	if id == "" {
		return docstore.Document{}, docstore.ErrEmptyDocumentID
	}

	observer, ctx := s.startOperation(ctx, operationGet, collection)

	sqlQuery, err := s.buildGetQuery(collection, id)
	if err != nil {
		observer.finishError(errorTypeBuildQuery, err, logMsgBuildSelectQueryFailed)
		return docstore.Document{}, err
	}

	documents, err := s.queryDocuments(ctx, sqlQuery, operationGet)
	if err != nil {
		observer.finishError(errorTypeDatabaseQuery, err, logMsgDBQueryFailed)
		return docstore.Document{}, err
	}

	if len(documents) == 0 {
		observer.finishSuccess(0)
		return docstore.Document{}, docstore.ErrDocumentNotFound
	}

	observer.finishSuccess(1)

	return documents[0], nil
}

// GetAll returns all documents of a collection ordered by id.
func (s DocumentStore) GetAll(ctx context.Context, collection docstore.CollectionString) (docstore.Documents, error) {
	return s.Query(ctx, docstore.BuildQuery(collection).Finalize())
}

// Query returns the documents matching the query. Documents without an explicit ordering come back ordered by id.
func (s DocumentStore) Query(ctx context.Context, query docstore.Query) (docstore.Documents, error) {
	if query.Collection() == "" {
		return nil, docstore.ErrEmptyCollection
	}

	observer, ctx := s.startOperation(ctx, operationQuery, query.Collection())

	sqlQuery, err := s.buildSelectQuery(query)
	if err != nil {
		observer.finishError(errorTypeBuildQuery, err, logMsgBuildSelectQueryFailed)
		return nil, err
	}

	documents, err := s.queryDocuments(ctx, sqlQuery, operationQuery)
	if err != nil {
		observer.finishError(errorTypeDatabaseQuery, err, logMsgDBQueryFailed)
		return nil, err
	}

	observer.finishSuccess(len(documents))

	return documents, nil
}

// Insert stores a new document. An empty id is replaced by a generated one.
// Returns docstore.ErrDuplicateDocumentID if the id is already taken in that collection.
func (s DocumentStore) Insert(ctx context.Context, document docstore.Document) (docstore.DocumentIDString, error) {
	if document.ID == "" {
		document = document.WithID(s.newID())
	}

	observer, ctx := s.startOperation(ctx, operationInsert, document.Collection)

	sqlQuery, err := s.buildInsertQuery(document)
	if err != nil {
		observer.finishError(errorTypeBuildQuery, err, logMsgBuildInsertQueryFailed)
		return "", err
	}

	rowsAffected, err := s.exec(ctx, sqlQuery, operationInsert)
	if err != nil {
		observer.finishError(errorTypeDatabaseExec, err, logMsgDBExecFailed)
		return "", err
	}

	if rowsAffected == 0 {
		observer.finishError(errorTypeDuplicate, docstore.ErrDuplicateDocumentID, logMsgDuplicateDocument)
		return "", docstore.ErrDuplicateDocumentID
	}

	observer.finishSuccess(int(rowsAffected))

	return document.ID, nil
}

// Replace overwrites the JSON of an existing document or returns docstore.ErrDocumentNotFound.
func (s DocumentStore) Replace(ctx context.Context, document docstore.Document) error {
	if document.ID == "" {
		return docstore.ErrEmptyDocumentID
	}

	observer, ctx := s.startOperation(ctx, operationReplace, document.Collection)

	sqlQuery, err := s.buildReplaceQuery(document)
	if err != nil {
		observer.finishError(errorTypeBuildQuery, err, logMsgBuildUpdateQueryFailed)
		return err
	}

	return s.execExpectingOneRow(ctx, observer, sqlQuery, operationReplace)
}

// UpdateFields merges the given top-level fields into an existing document.
func (s DocumentStore) UpdateFields(
	ctx context.Context,
	collection docstore.CollectionString,
	id docstore.DocumentIDString,
	fields docstore.Fields,
) error {
	if id == "" {
		return docstore.ErrEmptyDocumentID
	}

	fieldsJSON, err := docstore.MarshalFields(fields)
	if err != nil {
		return err
	}

	observer, ctx := s.startOperation(ctx, operationUpdateFields, collection)

	sqlQuery, err := s.buildUpdateFieldsQuery(collection, id, fieldsJSON)
	if err != nil {
		observer.finishError(errorTypeBuildQuery, err, logMsgBuildUpdateQueryFailed)
		return err
	}

	return s.execExpectingOneRow(ctx, observer, sqlQuery, operationUpdateFields)
}

// Delete physically removes a document or returns docstore.ErrDocumentNotFound.
func (s DocumentStore) Delete(ctx context.Context, collection docstore.CollectionString, id docstore.DocumentIDString) error {
	if id == "" {
		return docstore.ErrEmptyDocumentID
	}

	observer, ctx := s.startOperation(ctx, operationDelete, collection)

	sqlQuery, err := s.buildDeleteQuery(collection, id)
	if err != nil {
		observer.finishError(errorTypeBuildQuery, err, logMsgBuildDeleteQueryFailed)
		return err
	}

	return s.execExpectingOneRow(ctx, observer, sqlQuery, operationDelete)
}

// WriteAtomically applies inserts and replaces in a single statement, all or nothing.
// Inserts without an id get a generated one. The ids are returned in the order of the writes.
func (s DocumentStore) WriteAtomically(ctx context.Context, writes ...docstore.Write) ([]docstore.DocumentIDString, error) {
	if len(writes) == 0 {
		return nil, docstore.ErrNoWritesSupplied
	}

	prepared := make([]docstore.Write, 0, len(writes))
	ids := make([]docstore.DocumentIDString, 0, len(writes))

	for _, write := range writes {
		if write.Document.ID == "" {
			if write.Kind != docstore.WriteInsert {
				return nil, docstore.ErrEmptyDocumentID
			}
			write.Document = write.Document.WithID(s.newID())
		}

		prepared = append(prepared, write)
		ids = append(ids, write.Document.ID)
	}

	observer, ctx := s.startOperation(ctx, operationWriteAtomically, prepared[0].Document.Collection)

	sqlQuery := s.buildAtomicWriteSQL(prepared)

	start := time.Now()
	rows, err := s.db.QueryPrimary(ctx, sqlQuery)
	if err != nil {
		observer.finishError(errorTypeDatabaseExec, err, logMsgDBExecFailed)
		return nil, err
	}

	applied, err := scanSingleBool(rows)
	if err != nil {
		observer.finishError(errorTypeRowScan, err, logMsgScanRowFailed)
		return nil, err
	}

	s.logQueryWithDuration(ctx, sqlQuery, operationWriteAtomically, time.Since(start))

	if !applied {
		observer.finishError(errorTypePrecondition, docstore.ErrAtomicWriteRejected, logMsgAtomicWriteRejected)
		return nil, docstore.ErrAtomicWriteRejected
	}

	observer.finishSuccess(len(prepared))

	return ids, nil
}

func (s DocumentStore) queryDocuments(ctx context.Context, sqlQuery sqlQueryString, operation string) (docstore.Documents, error) {
	start := time.Now()

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logError(ctx, logMsgCloseRowsFailed, closeErr)
		}
	}()

	documents := make(docstore.Documents, 0)

	for rows.Next() {
		var row documentRow
		if scanErr := rows.Scan(&row.collection, &row.id, &row.data, &row.updatedAt); scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, scanErr
		}

		documents = append(documents, docstore.Document{
			Collection: row.collection,
			ID:         row.id,
			DataJSON:   row.data,
			UpdatedAt:  row.updatedAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	s.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))

	return documents, nil
}

func (s DocumentStore) exec(ctx context.Context, sqlQuery sqlQueryString, operation string) (rowsAffectedInt64, error) {
	start := time.Now()

	result, err := s.db.Exec(ctx, sqlQuery)
	if err != nil {
		return 0, err
	}

	s.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, err)
		return 0, err
	}

	return rowsAffected, nil
}

func (s DocumentStore) execExpectingOneRow(
	ctx context.Context,
	observer *operationObserver,
	sqlQuery sqlQueryString,
	operation string,
) error {
	rowsAffected, err := s.exec(ctx, sqlQuery, operation)
	if err != nil {
		observer.finishError(errorTypeDatabaseExec, err, logMsgDBExecFailed)
		return err
	}

	if rowsAffected == 0 {
		observer.finishSuccess(0)
		return docstore.ErrDocumentNotFound
	}

	observer.finishSuccess(int(rowsAffected))

	return nil
}

func scanSingleBool(rows adapters.DBRows) (bool, error) {
	defer func() {
		_ = rows.Close() // the scan error is the one worth reporting
	}()

	var value bool

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, err
		}
		return false, sql.ErrNoRows
	}

	if err := rows.Scan(&value); err != nil {
		return false, err
	}

	return value, rows.Err()
}
