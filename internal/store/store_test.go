package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newFixtureDB creates a database with the documented schema and returns
// its path plus a writable handle for seeding rows.
func newFixtureDB(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opencode.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schemaSQL)
	require.NoError(t, err)
	return path, db
}

func seedSession(t *testing.T, db *sql.DB, id, parentID, directory string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO session (id, parent_id, title, directory) VALUES (?, ?, ?, ?)`,
		id, parentID, "title "+id, directory)
	require.NoError(t, err)
}

func seedMessage(t *testing.T, db *sql.DB, id, sessionID, modelID string, output, created int64) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO message (id, session_id, model_id, input_tokens, output_tokens,
		 cache_write_tokens, cache_read_tokens, time_created, duration_ms)
		 VALUES (?, ?, ?, 100, ?, 0, 50, ?, 1500)`,
		id, sessionID, modelID, output, created)
	require.NoError(t, err)
}

func TestRecentWorkflowsGroupsSubAgents(t *testing.T) {
	path, db := newFixtureDB(t)
	seedSession(t, db, "ses_main", "", "/home/u/projects/gitlore")
	seedSession(t, db, "ses_sub", "ses_main", "/home/u/projects/gitlore")
	seedMessage(t, db, "msg_1", "ses_main", "claude-sonnet-4-5", 200, 1755000000000)
	seedMessage(t, db, "msg_2", "ses_sub", "claude-haiku-4-5", 80, 1755000100000)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	workflows, err := d.RecentWorkflows(10)
	require.NoError(t, err)
	require.Len(t, workflows, 1)

	wf := workflows[0]
	require.Equal(t, "ses_main", wf.WorkflowID())
	require.Len(t, wf.SubAgents, 1)
	require.Equal(t, "ses_sub", wf.SubAgents[0].SessionID)
	require.Equal(t, "gitlore", wf.Project())

	// Recency comes from message creation time on the database path.
	recent := wf.MostRecentFile()
	require.NotNil(t, recent)
	require.Equal(t, "msg_2", recent.FileName)
	require.EqualValues(t, 1500, recent.Time.DurationMs)
}

func TestRecentWorkflowsOrderAndLimit(t *testing.T) {
	path, db := newFixtureDB(t)
	seedSession(t, db, "ses_a", "", "")
	seedSession(t, db, "ses_b", "", "")
	seedSession(t, db, "ses_c", "", "")
	seedMessage(t, db, "msg_a", "ses_a", "claude-sonnet-4-5", 1, 1755000000000)
	seedMessage(t, db, "msg_b", "ses_b", "claude-sonnet-4-5", 1, 1755000300000)
	seedMessage(t, db, "msg_c", "ses_c", "claude-sonnet-4-5", 1, 1755000200000)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	workflows, err := d.RecentWorkflows(2)
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	require.Equal(t, "ses_b", workflows[0].WorkflowID())
	require.Equal(t, "ses_c", workflows[1].WorkflowID())
}

func TestRecentWorkflowsDanglingParentPromoted(t *testing.T) {
	path, db := newFixtureDB(t)
	seedSession(t, db, "ses_orphan", "ses_gone", "")
	seedMessage(t, db, "msg_1", "ses_orphan", "claude-sonnet-4-5", 1, 1755000000000)

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	workflows, err := d.RecentWorkflows(10)
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	require.Equal(t, "ses_orphan", workflows[0].WorkflowID())
}

func TestStats(t *testing.T) {
	path, db := newFixtureDB(t)
	seedSession(t, db, "ses_main", "", "")
	seedSession(t, db, "ses_sub1", "ses_main", "")
	seedSession(t, db, "ses_sub2", "ses_main", "")

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	stats, err := d.Stats()
	require.NoError(t, err)
	require.Equal(t, 1, stats.SessionCount)
	require.Equal(t, 2, stats.SubAgentCount)
}

func TestFindDatabasePathAbsent(t *testing.T) {
	t.Setenv("OPENCODE_DATA", t.TempDir())

	_, ok := FindDatabasePath()
	require.False(t, ok)
}
