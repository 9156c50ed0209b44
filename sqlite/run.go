package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/trialsum"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ trialsum.RunService = (*RunService)(nil)

// RunService implements trialsum.RunService using SQLite.
type RunService struct {
	db  *DB
	now func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db, now: time.Now}
}

// hashContent computes the xxHash of content as a 16-digit hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// CreateRun stores run, assigning its ID, CreatedAt and ContentHash.
func (s *RunService) CreateRun(ctx context.Context, run *trialsum.Run, content string) error {
	if err := run.Validate(); err != nil {
		return err
	}

	result, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	run.ID = uuid.New().String()
	run.CreatedAt = s.now().UTC().Truncate(time.Second)
	run.ContentHash = hashContent(content)
	if run.Result.Fetch != nil && run.Strategy == "" {
		run.Strategy = run.Result.Fetch.Strategy
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_url, content_hash, strategy, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceURL, run.ContentHash, string(run.Strategy), string(result),
		run.CreatedAt.Format(time.RFC3339))

	return err
}

// FindLatestRun returns the most recent run for sourceURL.
func (s *RunService) FindLatestRun(ctx context.Context, sourceURL string) (*trialsum.Run, error) {
	runs, err := s.FindRuns(ctx, trialsum.RunFilter{SourceURL: &sourceURL, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no run for %s", sourceURL)
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter trialsum.RunFilter) ([]*trialsum.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, content_hash, strategy, result, created_at FROM runs WHERE 1=1")

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*trialsum.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(rows *sql.Rows) (*trialsum.Run, error) {
	var (
		run       trialsum.Run
		strategy  string
		result    string
		createdAt string
	)
	if err := rows.Scan(&run.ID, &run.SourceURL, &run.ContentHash, &strategy, &result, &createdAt); err != nil {
		return nil, err
	}
	run.Strategy = trialsum.StrategyID(strategy)

	var err error
	if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	run.Result = &trialsum.Result{}
	if err := json.Unmarshal([]byte(result), run.Result); err != nil {
		return nil, errors.Join(trialsum.Errorf(trialsum.EINTERNAL, "corrupt result for run %s", run.ID), err)
	}
	return &run, nil
}
