package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDOMSurfaceCopiesSelection(t *testing.T) {
	var copied string
	s := NewDOMSurface(func(ctx context.Context, m string) error {
		copied = m
		return nil
	})

	c, err := s.Mount(`<section style="padding: 16px;"><img src="a.jpg"/></section>`)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Mounted())

	require.NoError(t, s.Select(c))
	ok, err := s.ExecCopy(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `<section style="padding: 16px;"><img src="a.jpg"/></section>`, copied)
	assert.Equal(t, copied, c.Markup())

	s.ClearSelection()
	s.Unmount(c)
	assert.False(t, s.HasSelection())
	assert.Equal(t, 0, s.Mounted())
}

func TestDOMSurfaceNothingSelected(t *testing.T) {
	s := NewDOMSurface(func(ctx context.Context, m string) error { return nil })
	ok, err := s.ExecCopy(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDOMSurfaceWithoutCommand(t *testing.T) {
	s := NewDOMSurface(nil)
	c, err := s.Mount("<b>x</b>")
	require.NoError(t, err)
	require.NoError(t, s.Select(c))

	_, err = s.ExecCopy(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDOMSurfaceRejectsForeignContainer(t *testing.T) {
	a := NewDOMSurface(nil)
	b := NewDOMSurface(nil)
	c, err := a.Mount("<p>x</p>")
	require.NoError(t, err)

	assert.Error(t, b.Select(c))
	assert.Error(t, a.Select(fakeContainer("x")))
}

func TestWriterCleansUpDOMSurface(t *testing.T) {
	s := NewDOMSurface(func(ctx context.Context, m string) error {
		return errors.New("xclip: no display")
	})
	text := &fakeText{}
	w := New(nil, s, text, quietLogger())

	assert.True(t, w.CopyMarkup(context.Background(), markup))
	assert.Equal(t, 0, s.Mounted())
	assert.False(t, s.HasSelection())
	assert.Equal(t, 1, text.calls)
}
