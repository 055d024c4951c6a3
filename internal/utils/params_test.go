package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	assert := assert.New(t)

	parsed, err := ParseDate("2026-03-01T09:30:00Z")
	assert.NoError(err)
	assert.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), parsed)

	parsed, err = ParseDate("2026-03-01")
	assert.NoError(err)
	assert.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("March 1st")
	assert.Error(err)

	_, err = ParseDate("")
	assert.Error(err)
}
