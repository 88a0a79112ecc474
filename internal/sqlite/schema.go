package sqlite

// Table names as they appear in the database and in exported files.
const (
	TableScores        = "scores"
	TableDailyActivity = "dailyActivity"
	TableTargets       = "targets"
)

// Schema DDL. Statements are idempotent so Attach can run them on every open.
const (
	createScores = `CREATE TABLE IF NOT EXISTS scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    value INTEGER NOT NULL
);`

	createDailyActivity = `CREATE TABLE IF NOT EXISTS dailyActivity (
    date TEXT PRIMARY KEY,
    solved INTEGER NOT NULL DEFAULT 0,
    score INTEGER NOT NULL DEFAULT 0,
    timeTaken INTEGER NOT NULL DEFAULT 0,
    difficulty INTEGER NOT NULL DEFAULT 1,
    synced INTEGER NOT NULL DEFAULT 0
);`

	createTargets = `CREATE TABLE IF NOT EXISTS targets (
    date TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);`
)

// Index DDL for the ledger maximum and the unsynced count.
const (
	idxScoresValue         = `CREATE INDEX IF NOT EXISTS idx_scores_value ON scores(value);`
	idxDailyActivitySynced = `CREATE INDEX IF NOT EXISTS idx_daily_activity_synced ON dailyActivity(synced);`
)

var schemaDDL = []string{
	createScores,
	createDailyActivity,
	createTargets,
}

var indexDDL = []string{
	idxScoresValue,
	idxDailyActivitySynced,
}
