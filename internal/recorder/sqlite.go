package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scanner writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			universe_size INTEGER,
			fetched       INTEGER,
			failed        INTEGER,
			candidates    INTEGER,
			matches       INTEGER,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS scan_results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER NOT NULL,
			rank        INTEGER,
			ticker      TEXT,
			last_close  REAL,
			williams_r  REAL,
			rsi         REAL,
			rule_pass   INTEGER,
			model_score REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON scan_results(run_id)`,

		`CREATE TABLE IF NOT EXISTS pattern_matches (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER NOT NULL,
			ticker      TEXT,
			anchor_date INTEGER,
			pattern     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run ON pattern_matches(run_id)`,

		`CREATE TABLE IF NOT EXISTS training_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			universe_size INTEGER,
			samples       INTEGER,
			positives     INTEGER,
			balanced      INTEGER,
			accuracy      REAL,
			pos_precision REAL,
			pos_recall    REAL,
			pos_f1        REAL,
			trees         INTEGER,
			max_depth     INTEGER,
			min_leaf      INTEGER,
			model_path    TEXT,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_ts ON training_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable turns an undefined indicator value into SQL NULL.
func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func (r *SQLiteRecorder) RecordScan(rec *ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO scan_runs
		(timestamp, universe_size, fetched, failed, candidates, matches, duration_ms)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.UniverseSize, rec.Fetched, rec.Failed,
		len(rec.Results), len(rec.Matches), rec.Duration.Milliseconds(),
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, sr := range rec.Results {
		var score interface{}
		if sr.Scored {
			score = sr.ModelScore
		}
		if _, err := r.db.Exec(`INSERT INTO scan_results
			(run_id, rank, ticker, last_close, williams_r, rsi, rule_pass, model_score)
			VALUES (?,?,?,?,?,?,?,?)`,
			runID, sr.Rank, sr.Ticker, sr.LastClose,
			nullable(sr.Indicators.WilliamsR), nullable(sr.Indicators.RSI),
			sr.RuleVerdict, score,
		); err != nil {
			return err
		}
	}

	for _, m := range rec.Matches {
		if _, err := r.db.Exec(`INSERT INTO pattern_matches
			(run_id, ticker, anchor_date, pattern)
			VALUES (?,?,?,?)`,
			runID, m.Ticker, m.AnchorDate.Unix(), m.PatternType,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTraining(rec *TrainingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos := rec.Report.PerClass[1]
	_, err := r.db.Exec(`INSERT INTO training_runs
		(timestamp, universe_size, samples, positives, balanced,
		 accuracy, pos_precision, pos_recall, pos_f1,
		 trees, max_depth, min_leaf, model_path, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.UniverseSize, rec.Report.Samples, rec.Report.Positives,
		rec.Report.Balanced, rec.Report.Accuracy, pos.Precision, pos.Recall, pos.F1,
		rec.Report.BestParams.Trees, rec.Report.BestParams.MaxDepth, rec.Report.BestParams.MinLeaf,
		rec.ModelPath, rec.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
