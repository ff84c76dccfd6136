package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobfit/internal/types"
)

const jobDescriptionColumns = `id, url, host, platform, text, content_hash, confidence, level,
       reasons, fit_score, detected_at, updated_at`

// UpsertJobDescription creates or updates the job description stored for a URL.
// A changed text clears any previously saved fit score.
func (db *DB) UpsertJobDescription(ctx context.Context, input *JobDescriptionInput) (*JobDescription, error) {
	if input == nil || input.Record == nil {
		return nil, fmt.Errorf("job description record is required")
	}
	if input.URL == "" {
		return nil, fmt.Errorf("job description URL is required")
	}

	reasonsJSON, err := json.Marshal(input.Record.Reasons)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reasons: %w", err)
	}

	platform := input.Platform
	if platform == "" {
		platform = "unknown"
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (id, url, host, platform, text, content_hash,
		                               confidence, level, reasons)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (url) DO UPDATE SET
		     host = $3,
		     platform = $4,
		     text = $5,
		     fit_score = CASE WHEN job_descriptions.content_hash = $6
		                      THEN job_descriptions.fit_score ELSE NULL END,
		     content_hash = $6,
		     confidence = $7,
		     level = $8,
		     reasons = $9,
		     updated_at = NOW()
		 RETURNING `+jobDescriptionColumns,
		uuid.New(), input.URL, input.Host, platform, input.Record.Text,
		HashJobContent(input.Record.Text), input.Record.Confidence,
		string(input.Record.Level), reasonsJSON,
	)

	jd, err := scanJobDescription(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job description: %w", err)
	}
	return jd, nil
}

// GetJobDescriptionByURL retrieves the job description stored for a URL
func (db *DB) GetJobDescriptionByURL(ctx context.Context, url string) (*JobDescription, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobDescriptionColumns+` FROM job_descriptions WHERE url = $1`,
		url,
	)
	jd, err := scanJobDescription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return jd, nil
}

// GetLastJobDescription retrieves the most recently stored job description
func (db *DB) GetLastJobDescription(ctx context.Context) (*JobDescription, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobDescriptionColumns+` FROM job_descriptions
		 ORDER BY updated_at DESC, detected_at DESC
		 LIMIT 1`,
	)
	jd, err := scanJobDescription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last job description: %w", err)
	}
	return jd, nil
}

// SaveFitScore stores the latest fit score beside the job description for a URL
func (db *DB) SaveFitScore(ctx context.Context, url string, score *types.FitScoreResult) error {
	if score == nil {
		return fmt.Errorf("fit score is required")
	}
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal fit score: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE job_descriptions SET fit_score = $2 WHERE url = $1`,
		url, scoreJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save fit score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to save fit score: no job description for %s", url)
	}
	return nil
}

// DeleteJobDescription removes the job description stored for a URL. It reports
// whether a row existed.
func (db *DB) DeleteJobDescription(ctx context.Context, url string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_descriptions WHERE url = $1`, url)
	if err != nil {
		return false, fmt.Errorf("failed to delete job description: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanJobDescription(row pgx.Row) (*JobDescription, error) {
	var jd JobDescription
	var level string
	var reasonsJSON, fitJSON []byte

	err := row.Scan(&jd.ID, &jd.URL, &jd.Host, &jd.Platform, &jd.Text, &jd.ContentHash,
		&jd.Confidence, &level, &reasonsJSON, &fitJSON, &jd.DetectedAt, &jd.UpdatedAt)
	if err != nil {
		return nil, err
	}
	jd.Level = types.ConfidenceLevel(level)

	if err := decodeJSONB(reasonsJSON, fitJSON, &jd); err != nil {
		return nil, err
	}
	return &jd, nil
}

// decodeJSONB fills the JSONB-backed fields of a scanned row.
func decodeJSONB(reasonsJSON, fitJSON []byte, jd *JobDescription) error {
	if len(reasonsJSON) > 0 {
		if err := json.Unmarshal(reasonsJSON, &jd.Reasons); err != nil {
			return fmt.Errorf("failed to unmarshal reasons: %w", err)
		}
	}
	if len(fitJSON) > 0 && string(fitJSON) != "null" {
		var score types.FitScoreResult
		if err := json.Unmarshal(fitJSON, &score); err != nil {
			return fmt.Errorf("failed to unmarshal fit score: %w", err)
		}
		jd.FitScore = &score
	}
	return nil
}
