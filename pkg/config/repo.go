package config

import (
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CDNHost serves files straight from GitHub repositories
const CDNHost = "fastly.jsdelivr.net"

var (
	// Match img[0,20] or img[0-20]
	repoRangePattern = regexp.MustCompile(`^(.+)\[(\d+)[,\-](\d+)\]$`)
	slashesPattern   = regexp.MustCompile(`/+`)

	// randIntN is swapped out in tests
	randIntN = rand.Intn
	now      = time.Now
)

// CurrentDatePath returns today's date as YYYY/MM/DD
func CurrentDatePath() string {
	return now().Format("2006/01/02")
}

func (g GitHubConfig) normalized() GitHubConfig {
	g.Owner = strings.TrimSpace(g.Owner)
	g.Repo = strings.TrimSpace(g.Repo)
	g.Branch = strings.TrimSpace(g.Branch)
	if g.Branch == "" {
		g.Branch = "main"
	}
	g.PathPrefix = strings.TrimSpace(g.PathPrefix)
	g.Token = strings.TrimSpace(g.Token)
	return g
}

// EffectivePathPrefix returns the configured prefix or today's date path,
// without trailing slashes
func (g GitHubConfig) EffectivePathPrefix() string {
	prefix := strings.TrimSpace(g.PathPrefix)
	if prefix == "" {
		prefix = CurrentDatePath()
	}
	return strings.TrimRight(prefix, "/")
}

// SetPathPrefixToCurrent pins the prefix to today's date
func (g *GitHubConfig) SetPathPrefixToCurrent() {
	g.PathPrefix = CurrentDatePath()
}

// ResolveRepoName expands the name[min,max] or name[min-max] syntax to
// name followed by a random number in [min,max]. A fresh number is drawn
// on every call so uploads spread across mirror repositories.
func (g GitHubConfig) ResolveRepoName() string {
	repo := strings.TrimSpace(g.Repo)
	m := repoRangePattern.FindStringSubmatch(repo)
	if m == nil {
		return repo
	}

	lo, err1 := strconv.Atoi(m[2])
	hi, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil {
		return repo
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	// The span hi-lo+1 must fit in an int
	if hi-lo >= math.MaxInt {
		return repo
	}
	return m[1] + strconv.Itoa(lo+randIntN(hi-lo+1))
}

// CDNURL returns the public URL of path under the configured prefix in
// a freshly resolved repository. It returns "" without owner or repo.
func (g GitHubConfig) CDNURL(path string) string {
	g = g.normalized()
	repo := g.ResolveRepoName()
	if g.Owner == "" || repo == "" {
		return ""
	}

	prefix := g.EffectivePathPrefix()
	p := prefix
	if path != "" {
		if prefix != "" {
			p = prefix + "/" + path
		} else {
			p = path
		}
	}
	return cdnURL(g.Owner, repo, g.Branch, p)
}

// CDNURLForRepo returns the public URL of a full repository path in a
// specific, already resolved, repository
func (g GitHubConfig) CDNURLForRepo(repo, path string) string {
	g = g.normalized()
	if g.Owner == "" || repo == "" || path == "" {
		return ""
	}
	return cdnURL(g.Owner, repo, g.Branch, strings.TrimLeft(path, "/"))
}

func cdnURL(owner, repo, branch, path string) string {
	rest := owner + "/" + repo + "@" + branch + "/" + path
	return "https://" + CDNHost + "/gh/" + slashesPattern.ReplaceAllString(rest, "/")
}

// Export returns the repository settings with defaults applied
func (g GitHubConfig) Export() GitHubConfig {
	g = g.normalized()
	g.PathPrefix = g.EffectivePathPrefix()
	return g
}

// Import replaces the repository settings, applying defaults
func (g *GitHubConfig) Import(in GitHubConfig) {
	*g = in.normalized()
	if g.PathPrefix == "" {
		g.PathPrefix = CurrentDatePath()
	}
}
