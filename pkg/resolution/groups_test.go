package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/gridup/pkg/media"
)

func img(url string, w, h uint) media.Image {
	return media.Image{URL: url, Width: w, Height: h}
}

func urls(images []media.Image) []string {
	out := make([]string, 0, len(images))
	for _, i := range images {
		out = append(out, i.URL)
	}
	return out
}

func TestComputeGroupsEmpty(t *testing.T) {
	assert.Empty(t, ComputeGroups(nil))
	assert.Empty(t, ComputeGroups([]media.Image{}))
}

func TestComputeGroupsOrdering(t *testing.T) {
	images := []media.Image{
		img("a.png", 100, 50),
		img("b.png", 100, 50),
		img("c.jpg", 200, 200),
	}

	groups := ComputeGroups(images)
	require.Len(t, groups, 2)

	assert.Equal(t, "200x200", groups[0].Key)
	assert.Equal(t, uint64(40000), groups[0].Area)
	assert.Equal(t, []string{"c.jpg"}, urls(groups[0].Images))

	assert.Equal(t, "100x50", groups[1].Key)
	assert.Equal(t, uint64(5000), groups[1].Area)
	assert.Equal(t, []string{"a.png", "b.png"}, urls(groups[1].Images))

	assert.Equal(t, []string{"c.jpg", "a.png", "b.png"}, urls(Flatten(groups)))
}

func TestComputeGroupsTieBreaks(t *testing.T) {
	// 200x100, 100x200 and 50x400 share an area of 20000
	images := []media.Image{
		img("tall", 100, 200),
		img("narrow", 50, 400),
		img("wide", 200, 100),
		img("unknown", 0, 0),
		img("wide-2", 200, 100),
	}

	groups := ComputeGroups(images)
	require.Len(t, groups, 4)

	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"200x100", "100x200", "50x400", "0x0"}, keys)
	assert.Equal(t, []string{"wide", "wide-2"}, urls(groups[0].Images))
}

func TestComputeGroupsPartitionsExactly(t *testing.T) {
	images := []media.Image{
		img("1", 10, 10), img("2", 20, 10), img("3", 10, 10),
		img("4", 0, 5), img("5", 20, 10), img("6", 10, 20),
	}

	groups := ComputeGroups(images)

	seen := map[string]int{}
	total := 0
	for _, g := range groups {
		for _, i := range g.Images {
			assert.Equal(t, g.Key, i.ResolutionKey())
			seen[i.URL]++
			total++
		}
	}
	assert.Equal(t, len(images), total)
	for _, i := range images {
		assert.Equal(t, 1, seen[i.URL], "image %s", i.URL)
	}

	for i := 1; i < len(groups); i++ {
		prev, cur := groups[i-1], groups[i]
		ordered := prev.Area > cur.Area ||
			(prev.Area == cur.Area && prev.Width > cur.Width) ||
			(prev.Area == cur.Area && prev.Width == cur.Width && prev.Height > cur.Height)
		assert.True(t, ordered, "%s before %s", prev.Key, cur.Key)
	}
}

func TestFilterBySelection(t *testing.T) {
	images := []media.Image{
		img("a", 100, 50),
		img("c", 200, 200),
		img("b", 100, 50),
		img("d", 0, 0),
	}

	assert.Empty(t, FilterBySelection(nil, NewSelection("100x50")))
	assert.Empty(t, FilterBySelection(images, DeselectAll()))

	got := FilterBySelection(images, NewSelection("100x50", "0x0"))
	assert.Equal(t, []string{"a", "b", "d"}, urls(got))

	all := FilterBySelection(images, SelectAll(ComputeGroups(images)))
	assert.Equal(t, []string{"a", "c", "b", "d"}, urls(all))
}

func TestSelectAll(t *testing.T) {
	groups := ComputeGroups([]media.Image{img("a", 1, 1), img("b", 2, 2)})
	sel := SelectAll(groups)
	assert.Equal(t, []string{"2x2", "1x1"}, sel.Keys())
	assert.Equal(t, 0, DeselectAll().Len())
}
