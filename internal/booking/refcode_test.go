package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceCode(t *testing.T) {
	code := NewReferenceCode(BookingRefPrefix)
	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "BK", parts[0])
	assert.Len(t, parts[1], 14, "timestamp segment")
	assert.Len(t, parts[2], 6, "random segment")
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])

	// Codes generated back to back should differ in the random segment.
	other := NewReferenceCode(BookingRefPrefix)
	assert.NotEqual(t, code, other)
}
