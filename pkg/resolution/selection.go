package resolution

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdxmph/gridup/pkg/media"
)

// Selection is an insertion-ordered set of resolution keys. The zero
// value is an empty selection.
type Selection struct {
	keys []string
	set  map[string]struct{}
}

// NewSelection builds a selection from keys, dropping duplicates
func NewSelection(keys ...string) Selection {
	var s Selection
	for _, k := range keys {
		s = s.with(k)
	}
	return s
}

// with returns s plus key, copying the backing storage so earlier
// selections are never modified
func (s Selection) with(key string) Selection {
	if s.Has(key) {
		return s
	}
	next := Selection{
		keys: make([]string, len(s.keys), len(s.keys)+1),
		set:  make(map[string]struct{}, len(s.keys)+1),
	}
	copy(next.keys, s.keys)
	for _, k := range s.keys {
		next.set[k] = struct{}{}
	}
	next.keys = append(next.keys, key)
	next.set[key] = struct{}{}
	return next
}

// Has reports whether key is selected
func (s Selection) Has(key string) bool {
	_, ok := s.set[key]
	return ok
}

// Len returns the number of selected keys
func (s Selection) Len() int {
	return len(s.keys)
}

// Keys returns the selected keys in insertion order
func (s Selection) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s Selection) String() string {
	return strings.Join(s.keys, ",")
}

// SelectAll selects every group's resolution
func SelectAll(groups []Group) Selection {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return NewSelection(keys...)
}

// DeselectAll returns an empty selection
func DeselectAll() Selection {
	return Selection{}
}

// AutoSelectNew adds the resolution of every image with known dimensions
// that is not selected yet. Existing keys are never removed.
func AutoSelectNew(images []media.Image, current Selection) Selection {
	next := current
	for _, img := range images {
		if !img.HasResolution() {
			continue
		}
		next = next.with(img.ResolutionKey())
	}
	return next
}

// ParseKey parses a "WxH" resolution key
func ParseKey(key string) (width, height uint, err error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(key)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resolution %q: expected WxH", key)
	}
	wv, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution width %q: %w", key, err)
	}
	hv, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution height %q: %w", key, err)
	}
	return uint(wv), uint(hv), nil
}

// ParseSelection parses resolution keys, normalising each to "WxH"
func ParseSelection(keys []string) (Selection, error) {
	var sel Selection
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		w, h, err := ParseKey(k)
		if err != nil {
			return Selection{}, err
		}
		sel = sel.with(media.Key(w, h))
	}
	return sel, nil
}
