package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"clearview/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *domain.Failure `json:"error"`
}

type row struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// run executes cmsctl against dbPath and decodes the printed envelope
func run(t *testing.T, dbPath string, args ...string) (envelope, error) {
	t.Helper()
	root, a := newRootCmd()
	defer a.close()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--sqlite", dbPath}, args...))
	err := root.Execute()

	var env envelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env), out.String())
	return env, err
}

func TestContentCommands(t *testing.T) {
	t.Setenv("TABLE_PREFIX", "test_")
	db := filepath.Join(t.TempDir(), "cli.db")

	var ids []string
	for _, q := range []string{"Q1", "Q2", "Q3"} {
		env, err := run(t, db, "content", "append-faq", "-q", q, "-a", "A")
		require.NoError(t, err)
		var r row
		require.NoError(t, json.Unmarshal(env.Data, &r))
		ids = append(ids, r.ID)
	}

	env, err := run(t, db, "content", "reorder", "faqs", ids[2], ids[0], ids[1])
	require.NoError(t, err)
	var rows []row
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, ids[2], rows[0].ID)

	env, err = run(t, db, "content", "remove", "faqs", ids[0])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Equal(t, []int{0, 1}, []int{rows[0].Order, rows[1].Order})

	env, err = run(t, db, "content", "reorder", "faqs", ids[1])
	require.Error(t, err)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.KindInvariantViolation, env.Error.Kind)
}

func TestRecordsCommands(t *testing.T) {
	t.Setenv("TABLE_PREFIX", "test_")
	db := filepath.Join(t.TempDir(), "cli.db")

	env, err := run(t, db, "records", "create", "testimonials", `{"author_name":"Dana","content":"Great","rating":5}`)
	require.NoError(t, err)
	var r row
	require.NoError(t, json.Unmarshal(env.Data, &r))

	_, err = run(t, db, "records", "delete", "testimonials", r.ID)
	require.NoError(t, err)

	env, err = run(t, db, "records", "activate", "testimonials", r.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvariantViolation, env.Error.Kind)

	env, err = run(t, db, "records", "list", "testimonials", "--state", "deleted")
	require.NoError(t, err)
	var rows []row
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)
}

func TestUnknownCollectionIsNotFound(t *testing.T) {
	env, err := run(t, filepath.Join(t.TempDir(), "cli.db"), "content", "list", "blog")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, env.Error.Kind)
}
