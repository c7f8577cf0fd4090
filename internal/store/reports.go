// Package store persists completed strategic reports to a local SQLite
// database so past analyses can be listed and re-read from the CLI.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"stratagem/internal/analysis"
)

// ReportSummary is a single row from the history listing.
type ReportSummary struct {
	ReportID          string    `json:"report_id"`
	Company           string    `json:"company"`
	Industry          string    `json:"industry"`
	GeneratedAt       time.Time `json:"generated_at"`
	OverallConfidence float64   `json:"overall_confidence"`
	FallbackCount     int       `json:"fallback_count"`
}

// ReportStore keeps report history in SQLite. The full report is stored as a
// JSON payload next to the queryable summary columns.
type ReportStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewReportStore opens (or creates) the history database at the given path.
func NewReportStore(path string) (*ReportStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &ReportStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the required tables.
func (s *ReportStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		report_id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		industry TEXT,
		generated_at DATETIME NOT NULL,
		overall_confidence REAL NOT NULL,
		fallback_count INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_company ON reports(company);
	CREATE INDEX IF NOT EXISTS idx_reports_generated ON reports(generated_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Save persists a completed report. Saving the same report ID twice replaces
// the earlier row.
func (s *ReportStore) Save(report *analysis.StrategicReport) error {
	if report == nil {
		return fmt.Errorf("cannot save nil report")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO reports
			(report_id, company, industry, generated_at, overall_confidence, fallback_count, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ReportID,
		report.Lead.CompanyName,
		report.Lead.Industry,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		report.Synthesis.OverallConfidence,
		report.FallbackCount(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// List returns report summaries newest-first, up to limit rows. A limit of
// zero or less means no cap.
func (s *ReportStore) List(limit int) ([]ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT report_id, company, industry, generated_at, overall_confidence, fallback_count
		FROM reports ORDER BY generated_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var summaries []ReportSummary
	for rows.Next() {
		var sum ReportSummary
		var generated string
		if err := rows.Scan(&sum.ReportID, &sum.Company, &sum.Industry, &generated, &sum.OverallConfidence, &sum.FallbackCount); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, generated); err == nil {
			sum.GeneratedAt = ts
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Get loads the full report payload for a report ID.
func (s *ReportStore) Get(reportID string) (*analysis.StrategicReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRow(`SELECT payload FROM reports WHERE report_id = ?`, reportID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %s not found", reportID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report analysis.StrategicReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report payload: %w", err)
	}
	return &report, nil
}

// Close closes the underlying database.
func (s *ReportStore) Close() error {
	return s.db.Close()
}
