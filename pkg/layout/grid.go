package layout

import (
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/resolution"
)

// Cell is one table cell of the grid. Placeholder cells pad a short last
// row and carry no image.
type Cell struct {
	Image       media.Image
	Index       int // position of the image in the caller's list
	Size        int // square edge in pixels
	PadRight    int
	PadBottom   int
	Placeholder bool
}

// Row is one horizontal strip of the grid
type Row struct {
	Cells []Cell
	Size  int
}

// Grid is the computed geometry handed to a dialect for rendering
type Grid struct {
	Options Options
	Rows    []Row
}

type indexedImage struct {
	media.Image
	index int
}

// Plan orders images by resolution group, chunks them into rows and
// computes per-cell geometry. images is never modified.
func Plan(images []media.Image, opts Options) Grid {
	opts = opts.Normalize()
	grid := Grid{Options: opts}
	if len(images) == 0 {
		return grid
	}

	ordered := orderByGroup(images)
	cols := opts.Columns

	var chunks [][]indexedImage
	for i := 0; i < len(ordered); i += cols {
		chunks = append(chunks, ordered[i:min(i+cols, len(ordered))])
	}

	for r, chunk := range chunks {
		size := cellSize(opts, len(chunk))
		padBottom := 0
		if r < len(chunks)-1 {
			padBottom = opts.GapPx
		}

		row := Row{Size: size, Cells: make([]Cell, 0, cols)}
		for c, img := range chunk {
			padRight := 0
			if c < len(chunk)-1 {
				padRight = opts.GapPx
			}
			row.Cells = append(row.Cells, Cell{
				Image:     img.Image,
				Index:     img.index,
				Size:      size,
				PadRight:  padRight,
				PadBottom: padBottom,
			})
		}

		for c := len(chunk); c < cols; c++ {
			padRight := 0
			if c < cols-1 {
				padRight = opts.GapPx
			}
			row.Cells = append(row.Cells, Cell{
				Index:       -1,
				Size:        size,
				PadRight:    padRight,
				PadBottom:   padBottom,
				Placeholder: true,
			})
		}

		grid.Rows = append(grid.Rows, row)
	}

	return grid
}

// cellSize sizes every cell of a row from that row's own length
func cellSize(opts Options, rowLen int) int {
	available := opts.ContainerWidth - opts.Padding*2 - (rowLen-1)*opts.GapPx
	if available <= 0 {
		return 0
	}
	return available / rowLen
}

// orderByGroup reorders images by resolution group and tags each with
// its input position. Groups keep input order, so positions are consumed
// front to back per key.
func orderByGroup(images []media.Image) []indexedImage {
	positions := make(map[string][]int)
	for i, img := range images {
		key := img.ResolutionKey()
		positions[key] = append(positions[key], i)
	}

	flat := resolution.Flatten(resolution.ComputeGroups(images))
	out := make([]indexedImage, len(flat))
	for i, img := range flat {
		key := img.ResolutionKey()
		out[i] = indexedImage{Image: img, index: positions[key][0]}
		positions[key] = positions[key][1:]
	}
	return out
}
