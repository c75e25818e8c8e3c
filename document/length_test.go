package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want Length
	}{
		{"", 0},
		{"2", 2 * Inch},
		{"2in", 2 * Inch},
		{`1.5"`, Inch + Inch/2},
		{"3cm", 3 * Cm},
		{"10 mm", 10 * Mm},
		{"72pt", 72 * Pt},
		{"100emu", 100},
		{"20twip", 20 * Twip},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseLength("wide")
		assert.Error(t, err)
		_, err = ParseLength("-1in")
		assert.Error(t, err)
	})
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation("landscape")
	require.NoError(t, err)
	assert.Equal(t, Landscape, o)
	assert.Equal(t, "landscape", o.String())

	o, err = ParseOrientation("")
	require.NoError(t, err)
	assert.Equal(t, Portrait, o)

	_, err = ParseOrientation("sideways")
	assert.Error(t, err)
}

func TestImageOpen(t *testing.T) {
	rc, err := Image{Data: []byte("png")}.Open()
	require.NoError(t, err)
	defer rc.Close()

	_, err = Image{}.Open()
	assert.Error(t, err)
}
