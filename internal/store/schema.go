package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meal_logs (
    source               TEXT NOT NULL,
    meal_id              TEXT NOT NULL,
    name                 TEXT NOT NULL,
    calories             INTEGER NOT NULL DEFAULT 0,
    calories_missing     INTEGER NOT NULL DEFAULT 0,
    protein              REAL,
    carbs                REAL,
    fat                  REAL,
    consumed_at          TEXT NOT NULL,
    remarks              TEXT,
    stored_at            TEXT NOT NULL,
    PRIMARY KEY (source, meal_id)
);

CREATE TABLE IF NOT EXISTS sync_state (
    source               TEXT PRIMARY KEY,
    goal                 INTEGER NOT NULL DEFAULT 0,
    synced_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meal_logs_consumed ON meal_logs(source, consumed_at);
`
