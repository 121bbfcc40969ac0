package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/query"
)

// ResourceRepository is the generic document CRUD for community content
// resources (posts, news, donations, dukaans, ...). One instance serves one
// table; it executes whatever sanitized Query Spec the scoping layer hands
// it and owns no authorization logic of its own.
type ResourceRepository struct {
	db    database.Database
	table string
}

// NewResourceRepository creates a repository bound to a table
func NewResourceRepository(db database.Database, table string) *ResourceRepository {
	return &ResourceRepository{db: db, table: table}
}

// Table returns the table this repository serves
func (r *ResourceRepository) Table() string {
	return r.table
}

// List executes a sanitized query spec and returns the matching page of
// documents plus the total match count.
func (r *ResourceRepository) List(ctx context.Context, spec *query.Spec) ([]map[string]interface{}, int, error) {
	where, vars := buildWhere(spec.Filter)

	selection := "*"
	if fields := safeFields(spec.Projection); len(fields) > 0 {
		// Always project the id so responses stay addressable.
		selection = strings.Join(append([]string{"id"}, fields...), ", ")
	}

	listQuery := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %d START %d",
		selection, r.table, where, orderBy(spec.Sort), spec.Limit, spec.Skip)

	results, err := r.db.Query(ctx, listQuery, vars)
	if err != nil {
		return nil, 0, err
	}
	docs := recordsFromResults(results)

	countQuery := fmt.Sprintf("SELECT count() AS count FROM %s%s GROUP ALL", r.table, where)
	countResult, err := r.db.QueryOne(ctx, countQuery, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return docs, 0, nil
		}
		return nil, 0, err
	}

	return docs, extractCount(countResult), nil
}

// Get retrieves a document by id. Returns nil when the document does not
// exist.
func (r *ResourceRepository) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	result, err := r.db.QueryOne(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{
		"id": ensureRecordID(r.table, id),
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return recordFromResult(result), nil
}

// Create inserts a document and returns the stored record.
func (r *ResourceRepository) Create(ctx context.Context, doc map[string]interface{}) (map[string]interface{}, error) {
	doc["createdAt"] = time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.QueryOne(ctx, fmt.Sprintf("CREATE %s CONTENT $data", r.table), map[string]interface{}{
		"data": doc,
	})
	if err != nil {
		return nil, err
	}
	return recordFromResult(result), nil
}

// Update merges fields into an existing document and returns the updated
// record, or nil when the document does not exist.
func (r *ResourceRepository) Update(ctx context.Context, id string, doc map[string]interface{}) (map[string]interface{}, error) {
	doc["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.QueryOne(ctx, "UPDATE type::record($id) MERGE $data", map[string]interface{}{
		"id":   ensureRecordID(r.table, id),
		"data": doc,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return recordFromResult(result), nil
}

// Delete removes a document by id.
func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	return r.db.Execute(ctx, "DELETE type::record($id)", map[string]interface{}{
		"id": ensureRecordID(r.table, id),
	})
}

// buildWhere renders a sanitized filter into a WHERE clause with bound
// parameters. Field names were allow-listed upstream and are checked again
// here; values always travel as parameters, never as query text.
func buildWhere(filter map[string]interface{}) (string, map[string]interface{}) {
	vars := make(map[string]interface{})
	if len(filter) == 0 {
		return "", vars
	}

	fields := make([]string, 0, len(filter))
	for field := range filter {
		if isSafeField(field) {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return "", vars
	}
	sort.Strings(fields)

	clauses := make([]string, 0, len(fields))
	for i, field := range fields {
		param := fmt.Sprintf("w%d", i)
		clauses = append(clauses, fmt.Sprintf("%s = $%s", field, param))
		vars[param] = filter[field]
	}

	return " WHERE " + strings.Join(clauses, " AND "), vars
}

// orderBy renders sanitized sort terms into an ORDER BY clause. The record
// id is always appended as a final tiebreaker so page membership stays
// stable across repeated identical queries.
func orderBy(terms []query.SortField) string {
	parts := make([]string, 0, len(terms)+1)
	for _, term := range terms {
		if !isSafeField(term.Field) {
			continue
		}
		direction := "ASC"
		if term.Desc {
			direction = "DESC"
		}
		parts = append(parts, term.Field+" "+direction)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func safeFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if isSafeField(f) {
			out = append(out, f)
		}
	}
	return out
}
