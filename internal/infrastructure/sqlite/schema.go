package sqlite

const nowSQL = `strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL CHECK (json_valid(data)),
	created_at TEXT NOT NULL DEFAULT (` + nowSQL + `),
	updated_at TEXT NOT NULL DEFAULT (` + nowSQL + `),
	PRIMARY KEY (collection, id)
) WITHOUT ROWID;
`
