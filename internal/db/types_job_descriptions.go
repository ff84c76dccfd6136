package db

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobfit/internal/types"
)

// JobDescription is a located job description stored per page URL. The most
// recently updated row is the carry-over record for pages where nothing is found.
type JobDescription struct {
	ID          uuid.UUID             `json:"id"`
	URL         string                `json:"url"`
	Host        string                `json:"host"`
	Platform    string                `json:"platform"`
	Text        string                `json:"text"`
	ContentHash string                `json:"content_hash"`
	Confidence  float64               `json:"confidence"`
	Level       types.ConfidenceLevel `json:"level"`
	Reasons     []string              `json:"reasons,omitempty"`
	FitScore    *types.FitScoreResult `json:"fit_score,omitempty"`
	DetectedAt  time.Time             `json:"detected_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// JobDescriptionInput is the data needed to upsert a job description
type JobDescriptionInput struct {
	URL      string
	Host     string
	Platform string
	Record   *types.JobDescriptionRecord
}

// Record converts the stored row back into the locator's record shape
func (j *JobDescription) Record() *types.JobDescriptionRecord {
	if j == nil {
		return nil
	}
	reasons := j.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return &types.JobDescriptionRecord{
		Text:       j.Text,
		Confidence: j.Confidence,
		Level:      j.Level,
		Reasons:    reasons,
	}
}

// HashJobContent computes a SHA256 hash of job description text for change detection
func HashJobContent(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}
