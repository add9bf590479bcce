// Package layout turns an image list into a square-cell HTML grid that
// survives pasting into a publishing platform's rich-text editor.
package layout

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/pdxmph/gridup/pkg/media"
)

// Dialect renders a planned grid as markup for one destination site
type Dialect interface {
	Render(grid Grid, fileID func() int) string
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{
		SiteWeChat: WeChat{},
	}
)

// Register adds or replaces the dialect for a site ID
func Register(siteID string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[siteID] = d
}

// Lookup returns the dialect for siteID. Unknown sites fall back to WeChat.
func Lookup(siteID string) Dialect {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	if d, ok := dialects[siteID]; ok {
		return d
	}
	return dialects[SiteWeChat]
}

// Sites lists the registered site IDs
func Sites() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	ids := make([]string, 0, len(dialects))
	for id := range dialects {
		ids = append(ids, id)
	}
	return ids
}

// Composer generates layout markup
type Composer struct {
	// FileID produces the placeholder image file identifier written into
	// each cell. It has no meaning beyond presentation.
	FileID func() int
}

// NewComposer returns a composer with random 9-digit file IDs
func NewComposer() *Composer {
	return &Composer{FileID: RandomFileID}
}

// Generate renders images as markup. It returns "" for an empty list.
func (c *Composer) Generate(images []media.Image, opts Options) string {
	if len(images) == 0 {
		return ""
	}
	grid := Plan(images, opts)

	fileID := c.FileID
	if fileID == nil {
		fileID = RandomFileID
	}
	return Lookup(grid.Options.SiteID).Render(grid, fileID)
}

// Generate renders images with a default composer
func Generate(images []media.Image, opts Options) string {
	return NewComposer().Generate(images, opts)
}

// RandomFileID returns a random number in [100000000, 999999999]
func RandomFileID() int {
	return 100000000 + rand.Intn(900000000)
}

var imageTypePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)`)

// ImageType derives the image format from the URL's extension, defaulting
// to "jpeg". Nothing is downloaded or decoded.
func ImageType(url string) string {
	m := imageTypePattern.FindStringSubmatch(url)
	if m == nil {
		return "jpeg"
	}
	return strings.ToLower(m[1])
}
