package layout

import (
	"fmt"
	"html"
	"strings"
)

// WeChat renders a table grid using only table, tr, td and img with inline
// pixel styling, which the WeChat editor keeps intact on paste
type WeChat struct{}

// Render implements Dialect
func (WeChat) Render(grid Grid, fileID func() int) string {
	if len(grid.Rows) == 0 {
		return ""
	}
	opts := grid.Options

	rows := make([]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		var cells strings.Builder
		for _, cell := range row.Cells {
			if cell.Placeholder {
				fmt.Fprintf(&cells, `<td style="width: %dpx; padding-right: %dpx; padding-bottom: %dpx;" width="%d"></td>`,
					cell.Size, cell.PadRight, cell.PadBottom, cell.Size)
				continue
			}
			cells.WriteString(weChatImageCell(cell, fileID()))
		}
		rows = append(rows, "<tr>\n"+cells.String()+"\n</tr>")
	}

	return fmt.Sprintf(`<section style="padding: %dpx; max-width: %dpx; margin: 0 auto;">
<table style="width: 100%%; border-collapse: collapse; border-spacing: 0; margin: 0; padding: 0;" width="100%%">
<tbody>
%s
</tbody>
</table>
</section>`, opts.Padding, opts.ContainerWidth, strings.Join(rows, "\n"))
}

func weChatImageCell(cell Cell, fileID int) string {
	src := html.EscapeString(cell.Image.URL)
	size := cell.Size
	style := fmt.Sprintf("width: %dpx; height: %dpx; display: block; border-radius: 16px; object-fit: cover;", size, size)

	return fmt.Sprintf(`<td style="width: %dpx; padding-right: %dpx; padding-bottom: %dpx; vertical-align: top;" width="%d">
  <img alt="图片" class="rich_pages wxw-img" data-ratio="1" data-s="300,640" data-type="%s" data-w="1080" data-imgfileid="%d" data-aistatus="1" style="%s" data-original-style="%s" data-src="%s" data-index="%d" src="%s" _width="%d" data-report-img-idx="%d" data-fail="0" />
</td>`,
		size, cell.PadRight, cell.PadBottom, size,
		ImageType(cell.Image.URL), fileID, style, style, src, cell.Index, src, size, cell.Index)
}
