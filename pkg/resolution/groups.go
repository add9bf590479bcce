// Package resolution groups images by their pixel dimensions and tracks
// which resolutions the user has chosen to include in a layout.
package resolution

import (
	"cmp"
	"slices"

	"github.com/pdxmph/gridup/pkg/media"
)

// Group holds every image sharing one width x height
type Group struct {
	Key    string        `json:"resolution"`
	Width  uint          `json:"width"`
	Height uint          `json:"height"`
	Area   uint64        `json:"area"`
	Images []media.Image `json:"images"`
}

// ComputeGroups partitions images by exact resolution. Groups are ordered
// by area, then width, then height, all descending. Images keep their
// arrival order inside a group.
func ComputeGroups(images []media.Image) []Group {
	if len(images) == 0 {
		return []Group{}
	}

	index := make(map[string]int)
	var groups []Group

	for _, img := range images {
		key := img.ResolutionKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{
				Key:    key,
				Width:  img.Width,
				Height: img.Height,
				Area:   uint64(img.Width) * uint64(img.Height),
			})
		}
		groups[i].Images = append(groups[i].Images, img)
	}

	slices.SortStableFunc(groups, compareGroups)
	return groups
}

func compareGroups(a, b Group) int {
	if c := cmp.Compare(b.Area, a.Area); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Width, a.Width); c != 0 {
		return c
	}
	return cmp.Compare(b.Height, a.Height)
}

// Flatten returns the images of all groups in group order
func Flatten(groups []Group) []media.Image {
	var n int
	for _, g := range groups {
		n += len(g.Images)
	}
	out := make([]media.Image, 0, n)
	for _, g := range groups {
		out = append(out, g.Images...)
	}
	return out
}

// FilterBySelection keeps the images whose resolution is selected, in
// their original order. An empty selection yields no images.
func FilterBySelection(images []media.Image, sel Selection) []media.Image {
	out := []media.Image{}
	if sel.Len() == 0 {
		return out
	}
	for _, img := range images {
		if sel.Has(img.ResolutionKey()) {
			out = append(out, img)
		}
	}
	return out
}
