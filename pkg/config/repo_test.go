package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixClock(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func fixRand(t *testing.T, fn func(int) int) {
	t.Helper()
	orig := randIntN
	randIntN = fn
	t.Cleanup(func() { randIntN = orig })
}

func TestResolveRepoName(t *testing.T) {
	fixRand(t, func(n int) int { return n - 1 })

	cases := map[string]string{
		"img[0,20]":   "img20",
		"img[0-19]":   "img19",
		" pics[5-5] ": "pics5",
		"img[9-3]":    "img9",
		"plain":       "plain",
		"img[a-b]":    "img[a-b]",
		"[1-2]":       "[1-2]",
		"":            "",

		"img[0-9223372036854775807]":  "img[0-9223372036854775807]",
		"img[1-9223372036854775807]":  "img9223372036854775807",
		"img[0-99999999999999999999]": "img[0-99999999999999999999]",
	}
	for in, want := range cases {
		assert.Equal(t, want, GitHubConfig{Repo: in}.ResolveRepoName(), in)
	}
}

func TestResolveRepoNameStaysInRange(t *testing.T) {
	g := GitHubConfig{Repo: "img[3,7]"}
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[g.ResolveRepoName()] = true
	}
	for name := range seen {
		assert.Contains(t, []string{"img3", "img4", "img5", "img6", "img7"}, name)
	}
	assert.Greater(t, len(seen), 1)
}

func TestCDNURL(t *testing.T) {
	fixClock(t, time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC))
	fixRand(t, func(n int) int { return 0 })

	g := GitHubConfig{Owner: "me", Repo: "img[4-9]", Branch: ""}
	assert.Equal(t, "https://fastly.jsdelivr.net/gh/me/img4@main/2024/03/07/a.png", g.CDNURL("a.png"))
	assert.Equal(t, "https://fastly.jsdelivr.net/gh/me/img4@main/2024/03/07", g.CDNURL(""))

	g.PathPrefix = "assets//wx/"
	assert.Equal(t, "https://fastly.jsdelivr.net/gh/me/img4@main/assets/wx/b.jpg", g.CDNURL("/b.jpg"))

	assert.Equal(t, "", GitHubConfig{Repo: "r"}.CDNURL("a.png"))
	assert.Equal(t, "", GitHubConfig{Owner: "o"}.CDNURL("a.png"))
}

func TestCDNURLForRepo(t *testing.T) {
	g := GitHubConfig{Owner: "me", Branch: "gh-pages"}
	assert.Equal(t, "https://fastly.jsdelivr.net/gh/me/img3@gh-pages/2024/01/x.png",
		g.CDNURLForRepo("img3", "//2024//01/x.png"))
	assert.Equal(t, "", g.CDNURLForRepo("", "x.png"))
	assert.Equal(t, "", g.CDNURLForRepo("img3", ""))
}

func TestExportImport(t *testing.T) {
	fixClock(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))

	out := GitHubConfig{Owner: " o ", Repo: "r", Token: " t "}.Export()
	assert.Equal(t, GitHubConfig{Owner: "o", Repo: "r", Branch: "main", PathPrefix: "2025/12/01", Token: "t"}, out)

	var g GitHubConfig
	g.Import(GitHubConfig{Owner: "x", Branch: "  "})
	assert.Equal(t, "main", g.Branch)
	assert.Equal(t, "2025/12/01", g.PathPrefix)

	g.PathPrefix = "custom"
	g.SetPathPrefixToCurrent()
	assert.Equal(t, "2025/12/01", g.PathPrefix)
}
