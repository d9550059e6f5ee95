// Package store archives crawl runs and the artworks they produced in
// SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/marblecrawl"
	"github.com/pevans/marblecrawl/scraper"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrRunFinished = errors.New("run already finished")
)

// ArtworkStore manages crawl runs and their artworks using SQLite.
type ArtworkStore struct {
	db *sql.DB
}

// Run is one invocation of the crawler.
type Run struct {
	RunID       uuid.UUID              `json:"run_id"`
	StartURL    string                 `json:"start_url"`
	Config      *scraper.ScraperConfig `json:"config,omitempty"`
	StartedAt   time.Time              `json:"started_at"`
	FinishedAt  *time.Time             `json:"finished_at,omitempty"`
	RecordCount int                    `json:"record_count"`
}

// IsFinished returns true if FinishRun has been called for the run.
func (r *Run) IsFinished() bool {
	return r.FinishedAt != nil
}

// Artwork is an archived record. Seq is the record's position in its run.
type Artwork struct {
	ArtworkID uuid.UUID                  `json:"artwork_id"`
	RunID     uuid.UUID                  `json:"run_id"`
	Seq       int                        `json:"seq"`
	Record    marblecrawl.DetailedRecord `json:"record"`
	CreatedAt time.Time                  `json:"created_at"`
}

// NewArtworkStore opens (creating if necessary) the database at dbPath.
func NewArtworkStore(dbPath string) (*ArtworkStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &ArtworkStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *ArtworkStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		start_url TEXT NOT NULL,
		config TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		record_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS artworks (
		artwork_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		artist TEXT NOT NULL,
		year TEXT NOT NULL,
		classification TEXT NOT NULL,
		related_location TEXT NOT NULL,
		medium TEXT NOT NULL,
		dimensions TEXT NOT NULL,
		credit_line TEXT NOT NULL,
		copyright_status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_artworks_run_seq ON artworks(run_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *ArtworkStore) Close() error {
	return s.db.Close()
}

// StartRun records the start of a crawl.
func (s *ArtworkStore) StartRun(startURL string, config *scraper.ScraperConfig) (*Run, error) {
	run := &Run{
		RunID:     uuid.New(),
		StartURL:  startURL,
		Config:    config,
		StartedAt: time.Now(),
	}

	var configJSON *string
	if config != nil {
		data, err := json.Marshal(config)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		str := string(data)
		configJSON = &str
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, start_url, config, started_at) VALUES (?, ?, ?, ?)`,
		run.RunID.String(),
		run.StartURL,
		configJSON,
		formatTime(&run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// FinishRun marks a run as finished with the number of records it wrote.
func (s *ArtworkStore) FinishRun(runID uuid.UUID, recordCount int) error {
	now := time.Now()
	result, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, record_count = ? WHERE run_id = ? AND finished_at IS NULL`,
		formatTime(&now), recordCount, runID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		run, err := s.GetRun(runID)
		if err != nil {
			return err
		}
		if run.IsFinished() {
			return ErrRunFinished
		}
		return ErrRunNotFound
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *ArtworkStore) GetRun(runID uuid.UUID) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, start_url, config, started_at, finished_at, record_count
		FROM runs
		WHERE run_id = ?
	`, runID.String())

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns all runs, most recent first.
func (s *ArtworkStore) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, start_url, config, started_at, finished_at, record_count
		FROM runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// SaveArtwork archives record as the seq'th record of a run.
func (s *ArtworkStore) SaveArtwork(runID uuid.UUID, seq int, record marblecrawl.DetailedRecord) (*Artwork, error) {
	artwork := &Artwork{
		ArtworkID: uuid.New(),
		RunID:     runID,
		Seq:       seq,
		Record:    record,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO artworks (
			artwork_id, run_id, seq,
			title, link, artist, year,
			classification, related_location, medium,
			dimensions, credit_line, copyright_status,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		artwork.ArtworkID.String(),
		runID.String(),
		seq,
		record.Title,
		record.Link,
		record.Artist,
		record.Year,
		record.Classification,
		record.RelatedLocation,
		record.Medium,
		record.Dimensions,
		record.CreditLine,
		record.CopyrightStatus,
		formatTime(&artwork.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint") {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to insert artwork: %w", err)
	}

	return artwork, nil
}

// ListArtworks returns a run's artworks in crawl order.
func (s *ArtworkStore) ListArtworks(runID uuid.UUID) ([]Artwork, error) {
	rows, err := s.db.Query(`
		SELECT artwork_id, seq,
		       title, link, artist, year,
		       classification, related_location, medium,
		       dimensions, credit_line, copyright_status,
		       created_at
		FROM artworks
		WHERE run_id = ?
		ORDER BY seq
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query artworks: %w", err)
	}
	defer rows.Close()

	var artworks []Artwork
	for rows.Next() {
		var idStr, createdAtStr string
		a := Artwork{RunID: runID}
		r := &a.Record

		err := rows.Scan(
			&idStr, &a.Seq,
			&r.Title, &r.Link, &r.Artist, &r.Year,
			&r.Classification, &r.RelatedLocation, &r.Medium,
			&r.Dimensions, &r.CreditLine, &r.CopyrightStatus,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}

		a.ArtworkID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse artwork ID: %w", err)
		}
		a.CreatedAt = parseTime(createdAtStr)

		artworks = append(artworks, a)
	}

	return artworks, rows.Err()
}

// Records returns a run's records in crawl order.
func (s *ArtworkStore) Records(runID uuid.UUID) ([]marblecrawl.DetailedRecord, error) {
	artworks, err := s.ListArtworks(runID)
	if err != nil {
		return nil, err
	}

	records := make([]marblecrawl.DetailedRecord, 0, len(artworks))
	for _, a := range artworks {
		records = append(records, a.Record)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var runIDStr, startURL, startedAtStr string
	var configJSON, finishedAtStr sql.NullString
	var recordCount int

	err := row.Scan(&runIDStr, &startURL, &configJSON, &startedAtStr, &finishedAtStr, &recordCount)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run ID: %w", err)
	}

	run := &Run{
		RunID:       runID,
		StartURL:    startURL,
		StartedAt:   parseTime(startedAtStr),
		RecordCount: recordCount,
	}

	if finishedAtStr.Valid {
		t := parseTime(finishedAtStr.String)
		run.FinishedAt = &t
	}

	if configJSON.Valid {
		var config scraper.ScraperConfig
		if err := json.Unmarshal([]byte(configJSON.String), &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		run.Config = &config
	}

	return run, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
