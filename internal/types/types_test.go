package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       ConfidenceLevel
	}{
		{1.0, ConfidenceHigh},
		{0.75, ConfidenceHigh},
		{0.7499, ConfidenceMedium},
		{0.5, ConfidenceMedium},
		{0.4999, ConfidenceRejected},
		{0, ConfidenceRejected},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.confidence), "confidence %v", tt.confidence)
	}
}

func TestResumeData_Validate(t *testing.T) {
	assert.NoError(t, (&ResumeData{}).Validate())
	assert.NoError(t, (&ResumeData{YearsOfExperience: 12.5}).Validate())
	assert.Error(t, (&ResumeData{YearsOfExperience: -1}).Validate())
	assert.Error(t, (&ResumeData{YearsOfExperience: 81}).Validate())
}

func TestPersonalInfo_Validate(t *testing.T) {
	tests := []struct {
		name    string
		info    PersonalInfo
		wantErr bool
	}{
		{"empty", PersonalInfo{}, false},
		{"valid", PersonalInfo{Email: "ada@example.com", LinkedIn: "https://www.linkedin.com/in/ada"}, false},
		{"bad email", PersonalInfo{Email: "ada"}, true},
		{"bad linkedin", PersonalInfo{LinkedIn: "linkedin ada"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
