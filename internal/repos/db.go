package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed groups and accounts if the DB is empty (idempotent; safe on every start)
	if err := seedGroups(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Groups (tenant boundary)
CREATE TABLE IF NOT EXISTS groups(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
  avatar_filename TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_group ON users(group_id);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Price items; price holds a canonical decimal string, never a float
CREATE TABLE IF NOT EXISTS price_items(
  id TEXT PRIMARY KEY,
  label TEXT NOT NULL,
  price TEXT NOT NULL,
  group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
  created_by TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_items_group_created ON price_items(group_id, created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedGroups(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM groups`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo groups")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO groups(id,name) VALUES
	  ('g-lyon','Agence Lyon'),
	  ('g-paris','Agence Paris')`)
	return tx.Commit()
}

// seedUsers ensures one account per group exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, GroupID, Hash string
	}
	mk := func(id, email, name, groupID, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, GroupID: groupID, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "admin@local", "Admin Local", "g-lyon", "Admin123!"),
		mk("u-claire", "claire@extranet.test", "Claire Morel", "g-lyon", "Passw0rd!"),
		mk("u-henri", "henri@extranet.test", "Henri Blanc", "g-paris", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,group_id)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.GroupID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
