package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// PathMatcher matches request paths against a skip list. Entries ending
// in "/**" match the prefix and all sub-paths, everything else matches
// exactly.
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPathMatcher compiles the skip list.
func NewPathMatcher(paths []string) *PathMatcher {
	pm := &PathMatcher{
		exact: make(map[string]struct{}, len(paths)),
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "/**") {
			pm.prefixes = append(pm.prefixes, strings.TrimSuffix(p, "/**"))
			continue
		}
		pm.exact[p] = struct{}{}
	}

	return pm
}

// Match reports whether the path is on the skip list.
func (pm *PathMatcher) Match(path string) bool {
	if _, ok := pm.exact[path]; ok {
		return true
	}

	for _, prefix := range pm.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	return false
}

func shouldSkip(c *gin.Context, matcher *PathMatcher, skipFunc func(*gin.Context) bool) bool {
	if matcher != nil && matcher.Match(c.Request.URL.Path) {
		return true
	}
	return skipFunc != nil && skipFunc(c)
}
