package models

import (
	"path"
	"sort"
	"strings"
)

// FileRecord represents a single file discovered during a tree scan.
// Records are owned by the TreeInventory that created them and are not
// modified after creation.
type FileRecord struct {
	// RelativePath is the case-preserving path relative to the tree root,
	// always slash-separated
	RelativePath string

	// IdentityKey is the case-folded RelativePath, the unique lookup key
	// within one tree
	IdentityKey string

	// AbsolutePath is the full path on the filesystem
	AbsolutePath string

	// Size in bytes
	Size int64
}

// NewFileRecord creates a record for a scanned file. The identity key is
// derived from the relative path.
func NewFileRecord(relativePath, absolutePath string, size int64) *FileRecord {
	return &FileRecord{
		RelativePath: relativePath,
		IdentityKey:  FoldPath(relativePath),
		AbsolutePath: absolutePath,
		Size:         size,
	}
}

// TreeInventory holds every file found under one tree root, keyed by
// identity key.
type TreeInventory struct {
	// Root is the absolute path the inventory was scanned from
	Root string

	// Files maps identity key to record. When two paths fold to the same
	// key the last-scanned record wins.
	Files map[string]*FileRecord

	// Skipped counts entries that could not be read during the scan
	Skipped int

	// RootFiles lists the relative paths of files that are direct
	// children of the root
	RootFiles []string
}

// NewTreeInventory creates an empty inventory for the given root.
func NewTreeInventory(root string) *TreeInventory {
	return &TreeInventory{
		Root:  root,
		Files: make(map[string]*FileRecord),
	}
}

// Add inserts a record into the inventory. Case-fold collisions keep the
// last-scanned record.
func (t *TreeInventory) Add(rec *FileRecord) {
	if _, exists := t.Files[rec.IdentityKey]; !exists && IsRootLevel(rec.RelativePath) {
		t.RootFiles = append(t.RootFiles, rec.RelativePath)
	}
	t.Files[rec.IdentityKey] = rec
}

// Len returns the number of files in the inventory.
func (t *TreeInventory) Len() int {
	return len(t.Files)
}

// SortedRecords returns all records ordered by relative path. Iterating
// the inventory through this method keeps classification deterministic.
func (t *TreeInventory) SortedRecords() []*FileRecord {
	records := make([]*FileRecord, 0, len(t.Files))
	for _, rec := range t.Files {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RelativePath < records[j].RelativePath
	})
	return records
}

// TopLevelDirs returns the unique first path components of all non-root
// files, sorted. Used to plan smart target scans.
func (t *TreeInventory) TopLevelDirs() []string {
	seen := make(map[string]struct{})
	for _, rec := range t.Files {
		if i := strings.Index(rec.RelativePath, "/"); i > 0 {
			seen[rec.RelativePath[:i]] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// FilenameIndex maps a case-folded base filename to every record sharing
// that name, in path order. Built from one TreeInventory.
type FilenameIndex map[string][]*FileRecord

// RootDirLabel is the display name used for files that live directly
// under the tree root.
const RootDirLabel = "<root>"

// FoldPath returns the case-folded form of a relative path, used as the
// identity key within one tree.
func FoldPath(rel string) string {
	return strings.ToLower(rel)
}

// FoldName returns the case-folded base filename of a relative path.
func FoldName(rel string) string {
	return strings.ToLower(path.Base(rel))
}

// IsRootLevel reports whether a relative path is a direct child of the
// tree root.
func IsRootLevel(rel string) bool {
	return !strings.Contains(rel, "/")
}

// ParentDir returns the directory a relative path lives in, or
// RootDirLabel for root-level files.
func ParentDir(rel string) string {
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[:i]
	}
	return RootDirLabel
}
