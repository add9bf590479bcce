package layout

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// EditorPolicy approximates the filtering a rich-text editor applies to
// pasted markup: grid elements, inline styles, sizes and data attributes
// survive; scripts, event handlers and unknown elements are dropped.
func EditorPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements("section", "table", "tbody", "tr", "td", "img")
		p.AllowAttrs("style").Globally()
		p.AllowAttrs("width").OnElements("table", "td", "img")
		p.AllowAttrs("alt", "class", "src", "_width").OnElements("img")
		p.AllowDataAttributes()
		policy = p
	})
	return policy
}

// Sanitize returns markup as it would look after the editor's filtering
func Sanitize(markup string) string {
	return EditorPolicy().Sanitize(markup)
}
