package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"ldptw/internal/domain"
)

const (
	kindFailure = "failure"
	kindPending = "pending"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ldp_runs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		version VARCHAR(64) NOT NULL,
		server VARCHAR(1024) NOT NULL,
		options TEXT NOT NULL,
		exit_code INT NOT NULL,
		outcome VARCHAR(32) NOT NULL,
		total_methods INT NOT NULL,
		passed_methods INT NOT NULL,
		failed_methods INT NOT NULL,
		pending_methods INT NOT NULL,
		duration VARCHAR(64) NOT NULL,
		duration_seconds DOUBLE NOT NULL,
		run_at VARCHAR(40) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ldp_run_methods (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id BIGINT NOT NULL,
		kind VARCHAR(16) NOT NULL,
		name VARCHAR(255) NOT NULL,
		class VARCHAR(512) NOT NULL,
		description TEXT NOT NULL,
		signature VARCHAR(512) NOT NULL,
		status VARCHAR(8) NOT NULL,
		duration_ms BIGINT NOT NULL,
		exception_class VARCHAR(512) NULL,
		exception_message TEXT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		INDEX idx_run_methods_run (run_id)
	)`,
}

// MySQLStorage keeps a history of runs in a MySQL database.
// Save appends a run; Load returns the most recent one.
type MySQLStorage struct {
	db *sql.DB
}

var _ Storage = (*MySQLStorage)(nil)

// OpenMySQL connects to dsn, creating its database and tables when missing
func OpenMySQL(ctx context.Context, dsn string) (*MySQLStorage, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid history dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, errors.New("history dsn must name a database")
	}
	if err := ensureDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create history tables: %w", err)
		}
	}
	return &MySQLStorage{db: db}, nil
}

// Close releases the connection pool
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

// ensureDatabase creates the DSN's database through a server-level connection
func ensureDatabase(ctx context.Context, cfg *mysql.Config) error {
	if !isValidDatabaseName(cfg.DBName) {
		return fmt.Errorf("invalid database name: %s", cfg.DBName)
	}

	db, err := sql.Open("mysql", serverDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	if err := db.QueryRowContext(ctx, query, cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check database %s: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.DBName)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
	}
	return nil
}

// serverDSN drops the database name so the connection works before it exists
func serverDSN(cfg *mysql.Config) string {
	server := cfg.Clone()
	server.DBName = ""
	return server.FormatDSN()
}

// isValidDatabaseName allows plain identifiers only
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r == '$' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return !strings.Contains(name, "--")
}

// Save inserts the run and its failing and pending methods in one transaction
func (s *MySQLStorage) Save(record *domain.RunRecord) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	m := record.Meta
	res, err := tx.ExecContext(ctx, `INSERT INTO ldp_runs
		(version, server, options, exit_code, outcome, total_methods, passed_methods,
		 failed_methods, pending_methods, duration, duration_seconds, run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Version, m.Server, m.Options, m.ExitCode, m.Outcome, m.TotalMethods, m.PassedMethods,
		m.FailedMethods, m.PendingMethods, m.Duration, m.DurationSeconds, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ldp_run_methods
		(run_id, kind, name, class, description, signature, status, duration_ms,
		 exception_class, exception_message, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare method insert: %w", err)
	}
	defer stmt.Close()

	insert := func(kind string, tm domain.TestMethod, resolved bool) error {
		var excClass, excMsg sql.NullString
		if tm.Exception != nil {
			excClass = sql.NullString{String: tm.Exception.Class, Valid: true}
			excMsg = sql.NullString{String: tm.Exception.Message, Valid: true}
		}
		_, err := stmt.ExecContext(ctx, runID, kind, tm.Name, tm.Class, tm.Description, tm.Signature,
			string(tm.Status), tm.DurationMS, excClass, excMsg, resolved)
		if err != nil {
			return fmt.Errorf("insert method %s: %w", tm.Name, err)
		}
		return nil
	}

	for _, f := range record.Failures {
		if err := insert(kindFailure, f.TestMethod, f.Resolved); err != nil {
			return err
		}
	}
	for _, p := range record.Pending {
		if err := insert(kindPending, p, false); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load returns the most recently stored run
func (s *MySQLStorage) Load() (*domain.RunRecord, error) {
	ctx := context.Background()

	var runID int64
	var m domain.RunMeta
	err := s.db.QueryRowContext(ctx, `SELECT id, version, server, options, exit_code, outcome,
		total_methods, passed_methods, failed_methods, pending_methods, duration, duration_seconds, run_at
		FROM ldp_runs ORDER BY id DESC LIMIT 1`).Scan(
		&runID, &m.Version, &m.Server, &m.Options, &m.ExitCode, &m.Outcome,
		&m.TotalMethods, &m.PassedMethods, &m.FailedMethods, &m.PendingMethods,
		&m.Duration, &m.DurationSeconds, &m.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("no runs recorded")
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, name, class, description, signature, status,
		duration_ms, exception_class, exception_message, resolved
		FROM ldp_run_methods WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("load run methods: %w", err)
	}
	defer rows.Close()

	record := &domain.RunRecord{Meta: m, Failures: []domain.MethodFailure{}, Pending: []domain.TestMethod{}}
	for rows.Next() {
		var (
			kind           string
			tm             domain.TestMethod
			status         string
			excClass, excM sql.NullString
			resolved       bool
		)
		if err := rows.Scan(&kind, &tm.Name, &tm.Class, &tm.Description, &tm.Signature, &status,
			&tm.DurationMS, &excClass, &excM, &resolved); err != nil {
			return nil, fmt.Errorf("scan run method: %w", err)
		}
		tm.Status = domain.Status(status)
		if excClass.Valid {
			tm.Exception = &domain.Exception{Class: excClass.String, Message: excM.String}
		}

		if kind == kindPending {
			record.Pending = append(record.Pending, tm)
		} else {
			record.Failures = append(record.Failures, domain.MethodFailure{TestMethod: tm, Resolved: resolved})
		}
	}
	return record, rows.Err()
}

// Recent returns the metadata of the last limit runs, newest first
func (s *MySQLStorage) Recent(limit int) ([]domain.RunMeta, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(context.Background(), `SELECT version, server, options, exit_code, outcome,
		total_methods, passed_methods, failed_methods, pending_methods, duration, duration_seconds, run_at
		FROM ldp_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunMeta
	for rows.Next() {
		var m domain.RunMeta
		if err := rows.Scan(&m.Version, &m.Server, &m.Options, &m.ExitCode, &m.Outcome,
			&m.TotalMethods, &m.PassedMethods, &m.FailedMethods, &m.PendingMethods,
			&m.Duration, &m.DurationSeconds, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, m)
	}
	return runs, rows.Err()
}
