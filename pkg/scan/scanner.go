package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sdejongh/filedrift/pkg/logging"
	"github.com/sdejongh/filedrift/pkg/models"
)

// DefaultWorkers bounds parallel subdirectory scans in smart mode.
const DefaultWorkers = 4

// Scanner walks a tree root and builds an immutable TreeInventory.
// Per-file stat failures are counted, not fatal. Ignored filenames
// never enter the inventory.
type Scanner struct {
	root    string
	ignore  *IgnoreFilter
	logger  logging.Logger
	workers int
}

// NewScanner creates a scanner for the given root. A nil ignore filter
// falls back to the builtin denylist, a nil logger discards output.
func NewScanner(root string, ignore *IgnoreFilter, logger logging.Logger) *Scanner {
	if ignore == nil {
		ignore = NewIgnoreFilter()
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Scanner{
		root:    root,
		ignore:  ignore,
		logger:  logger,
		workers: DefaultWorkers,
	}
}

// SetWorkers overrides the parallel subdirectory scan bound.
func (s *Scanner) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// Scan walks the whole tree. A missing or inaccessible root yields an
// empty inventory plus an error so callers can report it and carry on.
func (s *Scanner) Scan(ctx context.Context) (*models.TreeInventory, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return models.NewTreeInventory(s.root), fmt.Errorf("failed to resolve path: %w", err)
	}

	inv := models.NewTreeInventory(root)

	info, err := os.Stat(root)
	if err != nil {
		return inv, fmt.Errorf("directory does not exist: %s", s.root)
	}
	if !info.IsDir() {
		return inv, fmt.Errorf("path is not a directory: %s", root)
	}

	if err := s.walk(ctx, root, inv); err != nil {
		return inv, err
	}
	return inv, nil
}

// ScanSubdirs walks only the given top-level subdirectories of the root,
// in parallel, and merges the results into a single inventory. Subdirs
// that do not exist are skipped. Each subdirectory holds a disjoint set
// of identity keys, so the merge order only has to be deterministic,
// not synchronized.
func (s *Scanner) ScanSubdirs(ctx context.Context, subdirs []string) (*models.TreeInventory, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return models.NewTreeInventory(s.root), fmt.Errorf("failed to resolve path: %w", err)
	}

	inv := models.NewTreeInventory(root)

	if _, err := os.Stat(root); err != nil {
		return inv, fmt.Errorf("directory does not exist: %s", s.root)
	}

	sorted := make([]string, len(subdirs))
	copy(sorted, subdirs)
	sort.Strings(sorted)

	partials := make([]*models.TreeInventory, len(sorted))
	errs := make([]error, len(sorted))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i, subdir := range sorted {
		start := filepath.Join(root, subdir)
		if info, err := os.Stat(start); err != nil || !info.IsDir() {
			continue
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(idx int, startPath string) {
			defer wg.Done()
			defer func() { <-sem }()

			partial := models.NewTreeInventory(root)
			errs[idx] = s.walk(ctx, startPath, partial)
			partials[idx] = partial
		}(i, start)
	}

	wg.Wait()

	for i, partial := range partials {
		if errs[i] != nil {
			return inv, errs[i]
		}
		if partial == nil {
			continue
		}
		for _, rec := range partial.SortedRecords() {
			inv.Add(rec)
		}
		inv.Skipped += partial.Skipped
	}

	return inv, nil
}

// walk adds every regular file under startPath to the inventory, with
// paths relative to the scanner root.
func (s *Scanner) walk(ctx context.Context, startPath string, inv *models.TreeInventory) error {
	root := inv.Root

	return filepath.WalkDir(startPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == startPath {
				return err
			}
			inv.Skipped++
			s.logger.Debug("skipped unreadable entry", logging.Fields{"path": p, "error": err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if s.ignore.Match(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			inv.Skipped++
			s.logger.Debug("skipped unreadable entry", logging.Fields{"path": p, "error": err.Error()})
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			inv.Skipped++
			return nil
		}

		inv.Add(models.NewFileRecord(filepath.ToSlash(rel), p, info.Size()))
		return nil
	})
}

// ExistingSubdirs partitions subdir names into those present as
// directories under root and those absent. Used to plan smart scans.
func ExistingSubdirs(root string, subdirs []string) (existing, missing []string) {
	for _, subdir := range subdirs {
		info, err := os.Stat(filepath.Join(root, subdir))
		if err == nil && info.IsDir() {
			existing = append(existing, subdir)
		} else {
			missing = append(missing, subdir)
		}
	}
	return existing, missing
}
