package mysql

var schemaSQL = []string{`
CREATE TABLE IF NOT EXISTS seen_notifications (
  id      BIGINT    NOT NULL PRIMARY KEY,
  seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, `
CREATE TABLE IF NOT EXISTS preferences (
  name       VARCHAR(64)  NOT NULL PRIMARY KEY,
  value      VARCHAR(255) NOT NULL,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`,
}

const listSeenSQL = `SELECT id FROM seen_notifications ORDER BY id`

// INSERT IGNORE affects 0 rows when the id is already present.
const insertSeenSQL = `INSERT IGNORE INTO seen_notifications (id) VALUES (?)`

const getPreferenceSQL = `SELECT value FROM preferences WHERE name = ?`

const upsertPreferenceSQL = `
INSERT INTO preferences (name, value)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  value = VALUES(value)
`

const prefSkipNoData = "skip_nodata_lots"
