package order

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberPattern = regexp.MustCompile(`^ECO\d{8}[0-9A-F]{8}$`)

func TestNewNumber_Format(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)

	n := NewNumber(now)
	require.Regexp(t, numberPattern, n)
	assert.True(t, strings.HasPrefix(n, "ECO20260315"))
}

func TestNewNumber_UsesUTCDate(t *testing.T) {
	// 23:00 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 3, 15, 23, 0, 0, 0, loc)

	n := NewNumber(now)
	assert.True(t, strings.HasPrefix(n, "ECO20260316"))
}

func TestNewNumber_SuffixVaries(t *testing.T) {
	now := time.Now()

	seen := make(map[string]struct{})
	for range 100 {
		seen[NewNumber(now)] = struct{}{}
	}
	// Collisions are possible but vanishingly unlikely across 100 draws.
	assert.Greater(t, len(seen), 90)
}
