package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		title string
		want  string
		found bool
	}{
		{"Tax Season Memes Go Viral on TikTok", "Tax Season Memes Go Viral on TikTok", true},
		{"Cryptocurrency Tax Confusion", "Cryptocurrency Tax Confusion Trending", true},
		{"Work From Home Tax Deductions", "Work From Home Tax Deductions Viral", true},
		{"Gen Z Financial Stress", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			s, ok := Match(tt.title)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, s.Trend)
		})
	}
}

func TestSampleRecords(t *testing.T) {
	samples := SampleRecords()
	assert.Len(t, samples, 2)
	for _, s := range samples {
		assert.Len(t, s.Captions, 3)
		assert.Contains(t, s.Captions, "youtube")
	}
}
