package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/gridup/pkg/media"
)

func TestAutoSelectNew(t *testing.T) {
	current := NewSelection("640x480")

	next := AutoSelectNew([]media.Image{
		img("a", 1080, 1080),
		img("b", 640, 480),
		img("c", 0, 300),
		img("d", 0, 0),
		img("e", 1080, 1080),
	}, current)

	assert.Equal(t, []string{"640x480", "1080x1080"}, next.Keys())
	assert.False(t, next.Has("0x300"))
	assert.False(t, next.Has("0x0"))

	// the previous selection is left untouched
	assert.Equal(t, []string{"640x480"}, current.Keys())
}

func TestAutoSelectNewIsMonotonic(t *testing.T) {
	cases := []struct {
		name    string
		current Selection
		images  []media.Image
	}{
		{"empty", Selection{}, nil},
		{"no images", NewSelection("1x1", "2x2"), nil},
		{"only unknown", NewSelection("1x1"), []media.Image{img("z", 0, 0)}},
		{"overlap", NewSelection("1x1", "3x3"), []media.Image{img("a", 3, 3), img("b", 4, 4)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := AutoSelectNew(tc.images, tc.current)
			for _, k := range tc.current.Keys() {
				assert.True(t, next.Has(k), "lost %s", k)
			}
			assert.GreaterOrEqual(t, next.Len(), tc.current.Len())
		})
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{" 1080X720 ", "640x480", "", "1080x720"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1080x720", "640x480"}, sel.Keys())
	assert.Equal(t, "1080x720,640x480", sel.String())

	_, err = ParseSelection([]string{"wide"})
	assert.Error(t, err)

	_, err = ParseSelection([]string{"10xabc"})
	assert.Error(t, err)
}
