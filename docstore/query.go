package docstore

import (
	"slices"
	"strconv"
	"strings"
)

/***** Query *****/

// Query selects documents of one collection by equality predicates over top-level JSON fields,
// with optional ordering and limit. Build it with BuildQuery.
type Query struct {
	collection CollectionString
	predicates []Predicate
	orderings  []Ordering
	limit      uint
}

func (q Query) Collection() CollectionString {
	return q.collection
}

// Predicates are combined with AND.
func (q Query) Predicates() []Predicate {
	return q.predicates
}

func (q Query) Orderings() []Ordering {
	return q.orderings
}

// Limit returns 0 if the query is unlimited.
func (q Query) Limit() uint {
	return q.limit
}

/***** Predicate *****/

// Predicate is an equality check of a top-level JSON field against the text form of a value.
// The text form follows Postgres' ->> operator: strings as-is, booleans as "true"/"false",
// numbers in their shortest decimal form.
type Predicate struct {
	field FieldNameString
	val   string
}

func P(field FieldNameString, val string) Predicate {
	return Predicate{field: field, val: val}
}

func PBool(field FieldNameString, val bool) Predicate {
	return Predicate{field: field, val: strconv.FormatBool(val)}
}

func PInt(field FieldNameString, val int) Predicate {
	return Predicate{field: field, val: strconv.Itoa(val)}
}

func (p Predicate) Field() FieldNameString {
	return p.field
}

func (p Predicate) Val() string {
	return p.val
}

/***** Ordering *****/

type Ordering struct {
	field      FieldNameString
	descending bool
}

func (o Ordering) Field() FieldNameString {
	return o.field
}

func (o Ordering) Descending() bool {
	return o.descending
}

/***** QueryBuilder *****/

// QueryBuilder builds a generic document query to be used by the engine-specific store implementations.
// It only allows the combinations the store supports:
//
//   - all documents of a collection
//   - (predicate AND predicate...)
//   - either of the above, ordered by one or more fields
//   - any of the above, limited
type QueryBuilder interface {
	// Where adds one or multiple Predicate(s), all of which must match.
	//
	// It sanitizes the input:
	//	- removing Predicate(s) with an empty field name
	//	- sorting the Predicate(s)
	//	- removing duplicate Predicate(s)
	Where(predicate Predicate, predicates ...Predicate) FilteredQueryBuilder

	OrderBy(field FieldNameString) OrderedQueryBuilder
	OrderByDescending(field FieldNameString) OrderedQueryBuilder
	Limit(limit uint) CompletedQueryBuilder
	Finalize() Query
}

type FilteredQueryBuilder interface {
	OrderBy(field FieldNameString) OrderedQueryBuilder
	OrderByDescending(field FieldNameString) OrderedQueryBuilder
	Limit(limit uint) CompletedQueryBuilder
	Finalize() Query
}

type OrderedQueryBuilder interface {
	ThenBy(field FieldNameString) OrderedQueryBuilder
	ThenByDescending(field FieldNameString) OrderedQueryBuilder
	Limit(limit uint) CompletedQueryBuilder
	Finalize() Query
}

type CompletedQueryBuilder interface {
	Finalize() Query
}

type queryBuilder struct {
	query Query
}

// BuildQuery starts a Query for the given collection.
func BuildQuery(collection CollectionString) QueryBuilder {
	return &queryBuilder{query: Query{collection: collection}}
}

func (qb *queryBuilder) Where(predicate Predicate, predicates ...Predicate) FilteredQueryBuilder {
	all := append([]Predicate{predicate}, predicates...)

	all = slices.DeleteFunc(all, func(p Predicate) bool {
		return p.field == ""
	})

	slices.SortFunc(all, func(a, b Predicate) int {
		if c := strings.Compare(a.field, b.field); c != 0 {
			return c
		}
		return strings.Compare(a.val, b.val)
	})

	qb.query.predicates = slices.Clip(slices.Compact(all))

	return qb
}

func (qb *queryBuilder) OrderBy(field FieldNameString) OrderedQueryBuilder {
	return qb.addOrdering(field, false)
}

func (qb *queryBuilder) OrderByDescending(field FieldNameString) OrderedQueryBuilder {
	return qb.addOrdering(field, true)
}

func (qb *queryBuilder) ThenBy(field FieldNameString) OrderedQueryBuilder {
	return qb.addOrdering(field, false)
}

func (qb *queryBuilder) ThenByDescending(field FieldNameString) OrderedQueryBuilder {
	return qb.addOrdering(field, true)
}

func (qb *queryBuilder) Limit(limit uint) CompletedQueryBuilder {
	qb.query.limit = limit
	return qb
}

func (qb *queryBuilder) Finalize() Query {
	return qb.query
}

func (qb *queryBuilder) addOrdering(field FieldNameString, descending bool) OrderedQueryBuilder {
	if field == "" {
		return qb
	}

	if slices.ContainsFunc(qb.query.orderings, func(o Ordering) bool { return o.field == field }) {
		return qb
	}

	qb.query.orderings = append(qb.query.orderings, Ordering{field: field, descending: descending})

	return qb
}
