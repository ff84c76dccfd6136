package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://workday.com/jobs", PlatformWorkday},
		{"https://www.linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://indeed.com/viewjob", PlatformUnknown},
		{"::not a url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestHost(t *testing.T) {
	assert.Equal(t, "jobs.lever.co", Host("https://Jobs.Lever.co/acme"))
	assert.Equal(t, "", Host("::not a url"))
}
