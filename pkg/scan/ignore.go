package scan

import (
	"strings"
)

// defaultIgnoredNames are OS artifact files that never enter an
// inventory. Matching is case-insensitive on the base filename.
var defaultIgnoredNames = []string{
	".DS_Store",   // macOS directory metadata
	"Thumbs.db",   // Windows thumbnail cache
	"desktop.ini", // Windows folder settings
}

// IgnoreFilter is a fixed denylist of base filenames excluded at scan
// time. Ignored files are never counted, so a directory containing only
// ignored files behaves as if it were empty.
type IgnoreFilter struct {
	names map[string]struct{}
}

// NewIgnoreFilter creates a filter over the builtin denylist plus any
// extra filenames.
func NewIgnoreFilter(extra ...string) *IgnoreFilter {
	f := &IgnoreFilter{names: make(map[string]struct{}, len(defaultIgnoredNames)+len(extra))}
	for _, n := range defaultIgnoredNames {
		f.names[strings.ToLower(n)] = struct{}{}
	}
	for _, n := range extra {
		if n == "" {
			continue
		}
		f.names[strings.ToLower(n)] = struct{}{}
	}
	return f
}

// Match reports whether a base filename is on the denylist.
func (f *IgnoreFilter) Match(name string) bool {
	_, ok := f.names[strings.ToLower(name)]
	return ok
}

// Names returns the denylisted filenames, for display purposes.
func (f *IgnoreFilter) Names() []string {
	names := make([]string, 0, len(f.names))
	for n := range f.names {
		names = append(names, n)
	}
	return names
}
