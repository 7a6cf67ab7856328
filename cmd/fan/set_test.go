package fan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePercent(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"0", 0},
		{"40", 0.4},
		{"75%", 0.75},
		{"100", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			duty, err := parsePercent(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, duty, 1e-9)
		})
	}
}

func TestParsePercentInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "-1", "101", "%"} {
		_, err := parsePercent(input)
		assert.Error(t, err, input)
	}
}
