package layout

// Site identifiers understood by the composer
const (
	SiteWeChat = "wechat"
)

// Column bounds. Requests outside the range are clamped, not rejected.
const (
	MinColumns = 1
	MaxColumns = 6
)

// Options controls grid geometry and output dialect
type Options struct {
	Columns        int    `json:"columns" mapstructure:"columns"`
	ContainerWidth int    `json:"container_width" mapstructure:"container_width"`
	GapPx          int    `json:"gap_px" mapstructure:"gap_px"`
	Padding        int    `json:"padding" mapstructure:"padding"`
	SiteID         string `json:"site_id" mapstructure:"site_id"`
}

// DefaultOptions returns the stock WeChat layout
func DefaultOptions() Options {
	return Options{
		Columns:        3,
		ContainerWidth: 640,
		GapPx:          16,
		Padding:        16,
		SiteID:         SiteWeChat,
	}
}

// Normalize clamps columns to [MinColumns, MaxColumns] and fills in the
// container width and site when they are unset. Zero gap and padding are
// valid and kept.
func (o Options) Normalize() Options {
	o.Columns = ClampColumns(o.Columns)
	if o.ContainerWidth <= 0 {
		o.ContainerWidth = DefaultOptions().ContainerWidth
	}
	if o.GapPx < 0 {
		o.GapPx = 0
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.SiteID == "" {
		o.SiteID = SiteWeChat
	}
	return o
}

// ClampColumns forces a column count into [MinColumns, MaxColumns]
func ClampColumns(n int) int {
	return max(MinColumns, min(n, MaxColumns))
}
