package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// backend: "sqlite" (default, file under data/) or "postgres" (connection
// string from DATABASE_URL).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	default:
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
			dbPath = filepath.Join(dataDir, "phrasebot.db")
		}
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		// Enable foreign keys
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	// Initialize schema
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create users table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER UNIQUE NOT NULL,
			username TEXT,
			first_name TEXT,
			last_name TEXT,
			level TEXT DEFAULT 'A1',
			sentences_per_day INTEGER DEFAULT 20,
			notification_hour INTEGER DEFAULT 9,
			notification_enabled BOOLEAN DEFAULT true,
			is_admin BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create sentences table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS sentences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			english_text TEXT NOT NULL,
			translation TEXT NOT NULL,
			level TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(english_text)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sentences table: %v", err)
	}

	// Create progress table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			sentence_id INTEGER NOT NULL,
			repetitions INTEGER DEFAULT 0,
			ease_factor REAL DEFAULT 2.5,
			interval_days INTEGER DEFAULT 0,
			lapses INTEGER DEFAULT 0,
			corrects INTEGER DEFAULT 0,
			wrongs INTEGER DEFAULT 0,
			due_date TEXT NOT NULL,
			last_answered_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (sentence_id) REFERENCES sentences(id),
			UNIQUE(user_id, sentence_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create progress table: %v", err)
	}

	// Create history table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			sentence_id INTEGER NOT NULL,
			english_text TEXT NOT NULL,
			user_answer TEXT DEFAULT '',
			expected TEXT NOT NULL,
			correct BOOLEAN DEFAULT false,
			skipped BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create history table: %v", err)
	}

	return nil
}
