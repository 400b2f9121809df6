package mbaas

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mbaas/mbaas.go/pkg/connection"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// DistanceUnit selects the radius operator of WhereNearGeoPointWithin.
type DistanceUnit string

const (
	Kilometers DistanceUnit = "$maxDistanceInKilometers"
	Miles      DistanceUnit = "$maxDistanceInMiles"
	Radians    DistanceUnit = "$maxDistanceInRadians"
)

// condition holds the operators accumulated on one field. Any other value in
// Query.where is a bare equality value.
type condition map[string]any

// Query builds a search over one kind. Builder methods return the receiver so
// they can be chained. A Query is not safe for concurrent use.
type Query struct {
	client *Client
	kind   string
	where  map[string]any
	order  []string
	skip   *int
	limit  *int
	count  bool
}

// NewQuery creates a query that is not bound to a client. It can build
// parameters and parse results but not run.
func NewQuery(kind string) *Query {
	return newQuery(nil, kind)
}

func newQuery(c *Client, kind string) *Query {
	return &Query{client: c, kind: kind, where: map[string]any{}}
}

// Kind returns the kind the query runs over.
func (q *Query) Kind() string {
	return q.kind
}

// IsCount reports whether the query asks for a total count.
func (q *Query) IsCount() bool {
	return q.count
}

// WhereEqualTo replaces every condition on field with the bare value.
func (q *Query) WhereEqualTo(field string, value models.Value) *Query {
	q.where[field] = models.Encode(value)
	return q
}

// WhereNotEqualTo adds a "$ne" condition.
func (q *Query) WhereNotEqualTo(field string, value models.Value) *Query {
	return q.whereOp(field, "$ne", models.Encode(value))
}

// WhereLessThan adds a "$lt" condition.
func (q *Query) WhereLessThan(field string, value models.Value) *Query {
	return q.whereOp(field, "$lt", models.Encode(value))
}

// WhereGreaterThan adds a "$gt" condition.
func (q *Query) WhereGreaterThan(field string, value models.Value) *Query {
	return q.whereOp(field, "$gt", models.Encode(value))
}

// WhereLessThanOrEqualTo adds a "$lte" condition.
func (q *Query) WhereLessThanOrEqualTo(field string, value models.Value) *Query {
	return q.whereOp(field, "$lte", models.Encode(value))
}

// WhereGreaterThanOrEqualTo adds a "$gte" condition.
func (q *Query) WhereGreaterThanOrEqualTo(field string, value models.Value) *Query {
	return q.whereOp(field, "$gte", models.Encode(value))
}

// WhereContainedIn matches when field equals one of values.
func (q *Query) WhereContainedIn(field string, values ...models.Value) *Query {
	return q.whereOp(field, "$in", encodeAll(values))
}

// WhereNotContainedIn adds a "$nin" condition.
func (q *Query) WhereNotContainedIn(field string, values ...models.Value) *Query {
	return q.whereOp(field, "$nin", encodeAll(values))
}

// WhereExists adds an "$exists" condition.
func (q *Query) WhereExists(field string, exists bool) *Query {
	return q.whereOp(field, "$exists", exists)
}

// WhereMatchesPattern adds a "$regex" condition.
func (q *Query) WhereMatchesPattern(field, pattern string) *Query {
	return q.whereOp(field, "$regex", pattern)
}

// WhereContainedInArray matches when the array field shares an element with values.
func (q *Query) WhereContainedInArray(field string, values ...models.Value) *Query {
	return q.whereOp(field, "$inArray", encodeAll(values))
}

// WhereNotContainedInArray adds a "$ninArray" condition on an array field.
func (q *Query) WhereNotContainedInArray(field string, values ...models.Value) *Query {
	return q.whereOp(field, "$ninArray", encodeAll(values))
}

// WhereContainsAllInArray matches when the array field holds every one of values.
func (q *Query) WhereContainsAllInArray(field string, values ...models.Value) *Query {
	return q.whereOp(field, "$all", encodeAll(values))
}

// WhereNearGeoPoint orders results by distance from point.
func (q *Query) WhereNearGeoPoint(field string, point models.GeoPoint) *Query {
	q.where[field] = condition{"$nearSphere": point.Encode()}
	return q
}

// WhereNearGeoPointWithin is WhereNearGeoPoint bounded by distance in unit.
func (q *Query) WhereNearGeoPointWithin(field string, point models.GeoPoint, distance float64, unit DistanceUnit) *Query {
	q.where[field] = condition{
		"$nearSphere": point.Encode(),
		string(unit):  distance,
	}
	return q
}

// WhereWithinGeoBox matches points inside the box spanned by two corners.
func (q *Query) WhereWithinGeoBox(field string, southwest, northeast models.GeoPoint) *Query {
	q.where[field] = condition{
		"$within": map[string]any{
			"$box": []any{southwest.Encode(), northeast.Encode()},
		},
	}
	return q
}

// WhereMatchesKeyInQuery matches when field equals the key field of any result
// of sub.
func (q *Query) WhereMatchesKeyInQuery(field, key string, sub *Query) *Query {
	q.where[field] = condition{
		"$select": map[string]any{
			"query": sub.subquery(),
			"key":   key,
		},
	}
	return q
}

// WhereMatchesQuery matches when the pointer field references a result of sub.
func (q *Query) WhereMatchesQuery(field string, sub *Query) *Query {
	q.where[field] = condition{"$inQuery": sub.subquery()}
	return q
}

// WhereRelatedTo restricts results to the members of the relation key of owner.
func (q *Query) WhereRelatedTo(owner models.Pointer, key string) *Query {
	q.where["$relatedTo"] = map[string]any{
		"object": owner.Encode(),
		"key":    key,
	}
	return q
}

// OrderByAscending appends field to the sort order.
func (q *Query) OrderByAscending(field string) *Query {
	q.order = append(q.order, field)
	return q
}

// OrderByDescending appends field to the sort order, highest first.
func (q *Query) OrderByDescending(field string) *Query {
	q.order = append(q.order, "-"+field)
	return q
}

// Skip drops the first n results.
func (q *Query) Skip(n int) *Query {
	q.skip = &n
	return q
}

// Limit caps the number of results.
func (q *Query) Limit(n int) *Query {
	q.limit = &n
	return q
}

func (q *Query) whereOp(field, op string, value any) *Query {
	cond, ok := q.where[field].(condition)
	if !ok {
		cond = condition{}
		q.where[field] = cond
	}
	cond[op] = value
	return q
}

// GetFieldItem returns a copy of the operators on field. It is empty when the
// field has no condition or an equality condition.
func (q *Query) GetFieldItem(field string) map[string]any {
	out := map[string]any{}
	if cond, ok := q.where[field].(condition); ok {
		for k, v := range cond {
			out[k] = v
		}
	}
	return out
}

// Predicate returns a copy of the condition tree in wire form.
func (q *Query) Predicate() map[string]any {
	out := make(map[string]any, len(q.where))
	for k, v := range q.where {
		if cond, ok := v.(condition); ok {
			m := make(map[string]any, len(cond))
			for op, arg := range cond {
				m[op] = arg
			}
			v = m
		}
		out[k] = v
	}
	return out
}

func (q *Query) cloneWhere() map[string]any {
	out := make(map[string]any, len(q.where))
	for k, v := range q.where {
		if cond, ok := v.(condition); ok {
			c := make(condition, len(cond))
			for op, arg := range cond {
				c[op] = arg
			}
			v = c
		}
		out[k] = v
	}
	return out
}

// OrQuery combines the predicates of queries under "$or". Nil queries are
// skipped. Kind and client come from the first non-nil query. It returns nil
// when no query is left.
func OrQuery(queries ...*Query) *Query {
	var out *Query
	or := make([]any, 0, len(queries))
	for _, q := range queries {
		if q == nil {
			continue
		}
		if out == nil {
			out = newQuery(q.client, q.kind)
		}
		or = append(or, q.Predicate())
	}
	if out == nil {
		return nil
	}
	out.where["$or"] = or
	return out
}

// CreateCountQuery returns a copy that only counts: no order, no skip and a
// zero limit. q is not modified.
func (q *Query) CreateCountQuery() *Query {
	limit := 0
	return &Query{
		client: q.client,
		kind:   q.kind,
		where:  q.cloneWhere(),
		limit:  &limit,
		count:  true,
	}
}

// Params flattens the query into request parameters. Keys are present only
// when set.
func (q *Query) Params() (map[string]string, error) {
	params := map[string]string{}
	if len(q.where) > 0 {
		where, err := json.Marshal(q.Predicate())
		if err != nil {
			return nil, fmt.Errorf("encode where: %w", err)
		}
		params[constants.KeyWhere] = string(where)
	}
	if len(q.order) > 0 {
		params[constants.KeyOrder] = strings.Join(q.order, ",")
	}
	if q.skip != nil {
		params[constants.KeySkip] = strconv.Itoa(*q.skip)
	}
	if q.limit != nil {
		params[constants.KeyLimit] = strconv.Itoa(*q.limit)
	}
	if q.count {
		params[constants.KeyCount] = "1"
	}
	return params, nil
}

// subquery is the form embedded in $select and $inQuery. Order and count are
// not carried.
func (q *Query) subquery() map[string]any {
	out := map[string]any{
		constants.KeyClassName: q.kind,
		constants.KeyWhere:     q.Predicate(),
	}
	if q.skip != nil {
		out[constants.KeySkip] = *q.skip
	}
	if q.limit != nil {
		out[constants.KeyLimit] = *q.limit
	}
	return out
}

// GetResultObjects turns the "results" of a find response into records of the
// query's kind. Elements that are not objects are skipped, and a missing
// "results" yields no records.
func (q *Query) GetResultObjects(response map[string]any) []*Record {
	items, _ := response[constants.KeyResults].([]any)
	out := make([]*Record, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r, err := NewRecordFromMap(q.kind, m)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GetResultCount reads "count" of a count response, 0 when absent.
func (q *Query) GetResultCount(response map[string]any) int {
	v, err := models.ValueOf(response[constants.KeyCount])
	if err != nil {
		return 0
	}
	switch n := v.(type) {
	case models.Int:
		return int(n)
	case models.Float:
		return int(n)
	}
	return 0
}

// FindTask runs the query and returns the matching records.
func (q *Query) FindTask() *Task[[]*Record] {
	return newTask(func(ctx context.Context) ([]*Record, error) {
		raw, err := q.execute(ctx)
		if err != nil {
			return nil, err
		}
		return q.GetResultObjects(raw), nil
	})
}

// Find runs the query and returns the matching records. It needs a query made
// by Client.NewQuery.
func (q *Query) Find(ctx context.Context) ([]*Record, error) {
	return q.FindTask().Wait(ctx)
}

// FindInBackground runs Find on its own goroutine and reports to callback.
func (q *Query) FindInBackground(ctx context.Context, callback Callback[[]*Record]) {
	q.FindTask().Go(ctx, callback)
}

// CountTask runs the count query derived from q.
func (q *Query) CountTask() *Task[int] {
	cq := q.CreateCountQuery()
	return newTask(func(ctx context.Context) (int, error) {
		raw, err := cq.execute(ctx)
		if err != nil {
			return 0, err
		}
		return cq.GetResultCount(raw), nil
	})
}

// Count runs the count form of the query.
func (q *Query) Count(ctx context.Context) (int, error) {
	return q.CountTask().Wait(ctx)
}

// CountInBackground runs Count on its own goroutine and reports to callback.
func (q *Query) CountInBackground(ctx context.Context, callback Callback[int]) {
	q.CountTask().Go(ctx, callback)
}

func (q *Query) execute(ctx context.Context) (map[string]any, error) {
	if q.client == nil {
		return nil, constants.ErrNoTransport
	}
	params, err := q.Params()
	if err != nil {
		return nil, err
	}
	q.client.log.Debug("finding objects", "kind", q.kind, "count", q.count)
	return q.client.callRaw(ctx, &connection.Request{
		Method: connection.MethodGet,
		Path:   PathOf(q.kind),
		Query:  params,
	})
}

func encodeAll(values []models.Value) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, models.Encode(v))
	}
	return out
}
