// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	market TEXT NOT NULL DEFAULT '',
	side TEXT NOT NULL,
	executed_at DATETIME,
	created_at DATETIME NOT NULL,
	trade_date DATETIME,
	trade_timestamp DATETIME,
	entry_price REAL,
	exit_price REAL,
	size REAL,
	pnl REAL NOT NULL,
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_owner ON trades(owner_id, executed_at);

CREATE TABLE IF NOT EXISTS accounts (
	owner_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	initial_balance REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`
