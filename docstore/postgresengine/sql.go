package postgresengine

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

const (
	colCollection   = "collection"
	colID           = "id"
	colData         = "data"
	colUpdatedAt    = "updated_at"
	dialectPostgres = "postgres"
	castJsonb       = "?::jsonb"
	mergeJsonb      = "data || ?::jsonb"
	jsonFieldText   = "data->>?"
	jsonFieldValue  = "data->?"
	sqlNow          = "now()"
)

func (s DocumentStore) dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

func (s DocumentStore) buildCreateSchemaSQL() sqlQueryString {
	table := pq.QuoteIdentifier(s.tableName)
	dataIndex := pq.QuoteIdentifier(s.tableName + "_data_idx")

	return fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %[1]s (
	%[3]s TEXT NOT NULL,
	%[4]s TEXT NOT NULL,
	%[5]s JSONB NOT NULL,
	%[6]s TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (%[3]s, %[4]s)
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s USING GIN (%[5]s jsonb_path_ops);`,
		table, dataIndex, colCollection, colID, colData, colUpdatedAt,
	)
}

func (s DocumentStore) selectColumns() []any {
	return []any{colCollection, colID, colData, colUpdatedAt}
}

func (s DocumentStore) buildGetQuery(collection docstore.CollectionString, id docstore.DocumentIDString) (sqlQueryString, error) {
	sqlQuery, _, err := s.dialect().
		From(s.tableName).
		Select(s.selectColumns()...).
		Where(goqu.C(colCollection).Eq(collection), goqu.C(colID).Eq(id)).
		ToSQL()

	return sqlQuery, err
}

func (s DocumentStore) buildSelectQuery(query docstore.Query) (sqlQueryString, error) {
	conditions := []exp.Expression{goqu.C(colCollection).Eq(query.Collection())}
	for _, predicate := range query.Predicates() {
		conditions = append(conditions, goqu.L(jsonFieldText, predicate.Field()).Eq(predicate.Val()))
	}

	orderings := make([]exp.OrderedExpression, 0, len(query.Orderings())+1)
	for _, ordering := range query.Orderings() {
		field := goqu.L(jsonFieldValue, ordering.Field())
		if ordering.Descending() {
			orderings = append(orderings, field.Desc())
		} else {
			orderings = append(orderings, field.Asc())
		}
	}
	orderings = append(orderings, goqu.C(colID).Asc())

	ds := s.dialect().
		From(s.tableName).
		Select(s.selectColumns()...).
		Where(conditions...).
		Order(orderings...)

	if query.Limit() > 0 {
		ds = ds.Limit(query.Limit())
	}

	sqlQuery, _, err := ds.ToSQL()

	return sqlQuery, err
}

func (s DocumentStore) buildInsertQuery(document docstore.Document) (sqlQueryString, error) {
	sqlQuery, _, err := s.dialect().
		Insert(s.tableName).
		Rows(goqu.Record{
			colCollection: document.Collection,
			colID:         document.ID,
			colData:       goqu.L(castJsonb, string(document.DataJSON)),
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()

	return sqlQuery, err
}

func (s DocumentStore) buildReplaceQuery(document docstore.Document) (sqlQueryString, error) {
	sqlQuery, _, err := s.dialect().
		Update(s.tableName).
		Set(goqu.Record{
			colData:      goqu.L(castJsonb, string(document.DataJSON)),
			colUpdatedAt: goqu.L(sqlNow),
		}).
		Where(goqu.C(colCollection).Eq(document.Collection), goqu.C(colID).Eq(document.ID)).
		ToSQL()

	return sqlQuery, err
}

func (s DocumentStore) buildUpdateFieldsQuery(
	collection docstore.CollectionString,
	id docstore.DocumentIDString,
	fieldsJSON []byte,
) (sqlQueryString, error) {
	sqlQuery, _, err := s.dialect().
		Update(s.tableName).
		Set(goqu.Record{
			colData:      goqu.L(mergeJsonb, string(fieldsJSON)),
			colUpdatedAt: goqu.L(sqlNow),
		}).
		Where(goqu.C(colCollection).Eq(collection), goqu.C(colID).Eq(id)).
		ToSQL()

	return sqlQuery, err
}

func (s DocumentStore) buildDeleteQuery(collection docstore.CollectionString, id docstore.DocumentIDString) (sqlQueryString, error) {
	sqlQuery, _, err := s.dialect().
		Delete(s.tableName).
		Where(goqu.C(colCollection).Eq(collection), goqu.C(colID).Eq(id)).
		ToSQL()

	return sqlQuery, err
}

// buildAtomicWriteSQL renders one statement with a guard CTE and one data-modifying CTE per write.
// Every write is conditioned on the guard, so either all of them apply or none does:
//
//	WITH guard AS (SELECT <all replace targets exist> AND <no insert target exists> AS ok),
//	     w0 AS (INSERT ... SELECT ... FROM guard WHERE guard.ok),
//	     w1 AS (UPDATE ... FROM guard WHERE guard.ok AND ...)
//	SELECT ok FROM guard
func (s DocumentStore) buildAtomicWriteSQL(writes []docstore.Write) sqlQueryString {
	table := pq.QuoteIdentifier(s.tableName)

	var replaceKeys, insertKeys []string
	for _, write := range writes {
		key := fmt.Sprintf("(%s, %s)", pq.QuoteLiteral(write.Document.Collection), pq.QuoteLiteral(write.Document.ID))
		if write.Kind == docstore.WriteReplace {
			replaceKeys = append(replaceKeys, key)
		} else {
			insertKeys = append(insertKeys, key)
		}
	}

	replaceCondition := "true"
	if len(replaceKeys) > 0 {
		replaceCondition = fmt.Sprintf(
			"(SELECT count(*) FROM %s WHERE (%s, %s) IN (%s)) = %d",
			table, colCollection, colID, strings.Join(replaceKeys, ", "), len(replaceKeys),
		)
	}

	insertCondition := "true"
	if len(insertKeys) > 0 {
		insertCondition = fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM %s WHERE (%s, %s) IN (%s))",
			table, colCollection, colID, strings.Join(insertKeys, ", "),
		)
	}

	ctes := []string{fmt.Sprintf("guard AS (SELECT %s AND %s AS ok)", replaceCondition, insertCondition)}

	for i, write := range writes {
		collection := pq.QuoteLiteral(write.Document.Collection)
		id := pq.QuoteLiteral(write.Document.ID)
		data := pq.QuoteLiteral(string(write.Document.DataJSON))

		if write.Kind == docstore.WriteReplace {
			ctes = append(ctes, fmt.Sprintf(
				"w%d AS (UPDATE %s AS d SET %s = %s::jsonb, %s = now() FROM guard WHERE guard.ok AND d.%s = %s AND d.%s = %s RETURNING d.%s)",
				i, table, colData, data, colUpdatedAt, colCollection, collection, colID, id, colID,
			))
			continue
		}

		ctes = append(ctes, fmt.Sprintf(
			"w%d AS (INSERT INTO %s (%s, %s, %s) SELECT %s, %s, %s::jsonb FROM guard WHERE guard.ok RETURNING %s)",
			i, table, colCollection, colID, colData, collection, id, data, colID,
		))
	}

	return "WITH " + strings.Join(ctes, ", ") + " SELECT ok FROM guard"
}
