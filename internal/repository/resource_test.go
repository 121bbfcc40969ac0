package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/query"
)

type recordingDB struct {
	database.Database
	queries []string
	vars    []map[string]interface{}

	queryResults []interface{}
	queryOne     interface{}
	queryOneErr  error
}

func (r *recordingDB) Query(_ context.Context, q string, vars map[string]interface{}) ([]interface{}, error) {
	r.queries = append(r.queries, q)
	r.vars = append(r.vars, vars)
	return r.queryResults, nil
}

func (r *recordingDB) QueryOne(_ context.Context, q string, vars map[string]interface{}) (interface{}, error) {
	r.queries = append(r.queries, q)
	r.vars = append(r.vars, vars)
	return r.queryOne, r.queryOneErr
}

func (r *recordingDB) Execute(_ context.Context, q string, vars map[string]interface{}) error {
	r.queries = append(r.queries, q)
	r.vars = append(r.vars, vars)
	return nil
}

func TestBuildWhere_BindsValuesAsParams(t *testing.T) {
	where, vars := buildWhere(map[string]interface{}{
		"community": "community:x",
		"category":  "events",
	})

	// Fields are sorted, so parameter order is stable.
	assert.Equal(t, " WHERE category = $w0 AND community = $w1", where)
	assert.Equal(t, "events", vars["w0"])
	assert.Equal(t, "community:x", vars["w1"])
}

func TestBuildWhere_DropsUnsafeFieldNames(t *testing.T) {
	where, vars := buildWhere(map[string]interface{}{
		"title":               "ok",
		"name; DROP TABLE $1": "injected",
	})

	assert.Equal(t, " WHERE title = $w0", where)
	assert.Len(t, vars, 1)
}

func TestBuildWhere_Empty(t *testing.T) {
	where, vars := buildWhere(nil)
	assert.Empty(t, where)
	assert.Empty(t, vars)
}

func TestOrderBy(t *testing.T) {
	clause := orderBy([]query.SortField{
		{Field: "createdAt", Desc: true},
		{Field: "title"},
		{Field: "bad name", Desc: true},
	})
	assert.Equal(t, " ORDER BY createdAt DESC, title ASC, id ASC", clause)

	// The id tiebreaker is emitted even without caller sort terms.
	assert.Equal(t, " ORDER BY id ASC", orderBy(nil))
}

func TestEnsureRecordID(t *testing.T) {
	assert.Equal(t, "post:abc", ensureRecordID("post", "abc"))
	assert.Equal(t, "post:abc", ensureRecordID("post", "post:abc"))
}

func TestList_BuildsQueryAndCount(t *testing.T) {
	db := &recordingDB{queryOneErr: database.ErrNotFound}
	repo := NewResourceRepository(db, "post")

	spec := &query.Spec{
		Filter:     map[string]interface{}{"community": "community:x"},
		Sort:       []query.SortField{{Field: "createdAt", Desc: true}},
		Projection: []string{"title"},
		Page:       2,
		Limit:      10,
		Skip:       10,
	}

	docs, total, err := repo.List(context.Background(), spec)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, total)

	require.Len(t, db.queries, 2)
	assert.Equal(t,
		"SELECT id, title FROM post WHERE community = $w0 ORDER BY createdAt DESC, id ASC LIMIT 10 START 10",
		db.queries[0])
	assert.Equal(t, "community:x", db.vars[0]["w0"])
	assert.Equal(t,
		"SELECT count() AS count FROM post WHERE community = $w0 GROUP ALL",
		db.queries[1])
}

func TestList_CountExtracted(t *testing.T) {
	db := &recordingDB{
		queryResults: []interface{}{
			map[string]interface{}{
				"status": "OK",
				"result": []interface{}{
					map[string]interface{}{"id": "post:a", "title": "hello"},
				},
			},
		},
		queryOne: map[string]interface{}{"count": float64(7)},
	}
	repo := NewResourceRepository(db, "post")

	docs, total, err := repo.List(context.Background(), &query.Spec{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "post:a", docs[0]["id"])
	assert.Equal(t, 7, total)
}

func TestList_RepeatedCallsIdentical(t *testing.T) {
	db := &recordingDB{
		queryResults: []interface{}{
			map[string]interface{}{
				"status": "OK",
				"result": []interface{}{
					map[string]interface{}{"id": "post:a"},
					map[string]interface{}{"id": "post:b"},
				},
			},
		},
		queryOne: map[string]interface{}{"count": float64(2)},
	}
	repo := NewResourceRepository(db, "post")

	first, firstTotal, err := repo.List(context.Background(), &query.Spec{Page: 1, Limit: 2})
	require.NoError(t, err)
	second, secondTotal, err := repo.List(context.Background(), &query.Spec{Page: 1, Limit: 2})
	require.NoError(t, err)

	// Identical requests issue identical queries, and without caller sort
	// terms the id tiebreaker keeps page membership stable.
	assert.Equal(t, db.queries[0], db.queries[2])
	assert.Contains(t, db.queries[0], "ORDER BY id ASC")
	assert.Equal(t, first, second)
	assert.Equal(t, firstTotal, secondTotal)
}

func TestCreate_SetsCreatedAt(t *testing.T) {
	db := &recordingDB{queryOne: map[string]interface{}{"id": "post:new"}}
	repo := NewResourceRepository(db, "post")

	doc := map[string]interface{}{"title": "hello"}
	created, err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "post:new", created["id"])

	assert.Equal(t, "CREATE post CONTENT $data", db.queries[0])
	sent := db.vars[0]["data"].(map[string]interface{})
	assert.NotEmpty(t, sent["createdAt"])
}

func TestGet_MissingReturnsNil(t *testing.T) {
	db := &recordingDB{queryOneErr: database.ErrNotFound}
	repo := NewResourceRepository(db, "post")

	doc, err := repo.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, "post:abc", db.vars[0]["id"])
}
