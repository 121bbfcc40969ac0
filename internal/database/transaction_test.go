package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxBuilder_NamespacesVariables(t *testing.T) {
	tb := NewTxBuilder()
	tb.Add("CREATE community SET name = $name", map[string]interface{}{"name": "c1"})
	tb.Add("CREATE community_configuration SET name = $name", map[string]interface{}{"name": "cfg"})

	query, vars := tb.Build()

	assert.True(t, strings.HasPrefix(query, "BEGIN TRANSACTION;"))
	assert.True(t, strings.HasSuffix(query, "COMMIT TRANSACTION;"))
	assert.NotContains(t, query, "$name")
	assert.Len(t, vars, 2)
	assert.Contains(t, vars, "v1_name")
	assert.Contains(t, vars, "v2_name")
	assert.Equal(t, "c1", vars["v1_name"])
	assert.Equal(t, "cfg", vars["v2_name"])
}

func TestTxBuilder_EmptyBuildsNothing(t *testing.T) {
	query, vars := NewTxBuilder().Build()
	assert.Empty(t, query)
	assert.Nil(t, vars)
}

type recordingDB struct {
	Database
	lastQuery string
	lastVars  map[string]interface{}
}

func (r *recordingDB) Query(_ context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	r.lastQuery = query
	r.lastVars = vars
	return nil, nil
}

func TestAtomicBatch_ExecutesAsSingleTransaction(t *testing.T) {
	db := &recordingDB{}
	batch := NewAtomicBatch()
	batch.Add("UPDATE $id SET x = $x", map[string]interface{}{"id": "a", "x": 1})
	batch.Add("UPDATE $id SET y = $y", map[string]interface{}{"id": "b", "y": 2})
	require.Equal(t, 2, batch.Len())

	require.NoError(t, batch.Execute(context.Background(), db))

	assert.Contains(t, db.lastQuery, "BEGIN TRANSACTION;")
	assert.Contains(t, db.lastQuery, "COMMIT TRANSACTION;")
	assert.Len(t, db.lastVars, 4)
}

func TestAtomicBatch_EmptyIsNoop(t *testing.T) {
	db := &recordingDB{}
	require.NoError(t, NewAtomicBatch().Execute(context.Background(), db))
	assert.Empty(t, db.lastQuery)
}
