package store

// schemaSQL documents the opencode database layout ocmon reads. The agent
// owns this database; ocmon never writes to it. Tests use the schema to
// build fixture databases.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS session (
    id            TEXT PRIMARY KEY,
    parent_id     TEXT,
    title         TEXT,
    directory     TEXT,
    time_created  INTEGER,
    time_updated  INTEGER
);

CREATE TABLE IF NOT EXISTS message (
    id                 TEXT PRIMARY KEY,
    session_id         TEXT NOT NULL REFERENCES session(id),
    model_id           TEXT,
    input_tokens       INTEGER NOT NULL DEFAULT 0,
    output_tokens      INTEGER NOT NULL DEFAULT 0,
    cache_write_tokens INTEGER NOT NULL DEFAULT 0,
    cache_read_tokens  INTEGER NOT NULL DEFAULT 0,
    time_created       INTEGER,
    duration_ms        INTEGER
);

CREATE INDEX IF NOT EXISTS idx_message_session ON message(session_id);
CREATE INDEX IF NOT EXISTS idx_session_parent ON session(parent_id);
`
