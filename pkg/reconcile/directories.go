package reconcile

import (
	"sort"
	"strings"

	"github.com/sdejongh/filedrift/pkg/models"
)

// AnalyzeDirectories reports every source directory whose files are all
// absent from the target. Files bucket by parent directory, root-level
// files under the RootDirLabel sentinel. TotalFiles counts every
// non-ignored source file in the directory regardless of status, so a
// directory with even one matched or moved file is never reported.
// Ignored filenames never entered the inventory, so a directory holding
// only OS artifacts has no bucket at all.
func AnalyzeDirectories(c *models.Classification, source *models.TreeInventory) []models.DirectoryStat {
	stats := make(map[string]*models.DirectoryStat)

	for _, row := range c.OnlyOnSource {
		dir := models.ParentDir(row.RelativePath)
		stat := stats[dir]
		if stat == nil {
			stat = &models.DirectoryStat{Name: dir}
			stats[dir] = stat
		}
		stat.MissingFiles++
		stat.MissingSize += row.SourceSize
	}

	// Only directories that lost at least one file can qualify, so the
	// totals pass is restricted to existing buckets.
	for _, rec := range source.Files {
		if stat := stats[models.ParentDir(rec.RelativePath)]; stat != nil {
			stat.TotalFiles++
		}
	}

	var missing []models.DirectoryStat
	for _, stat := range stats {
		if stat.EntirelyMissing() {
			missing = append(missing, *stat)
		}
	}

	sort.Slice(missing, func(i, j int) bool {
		return strings.ToLower(missing[i].Name) < strings.ToLower(missing[j].Name)
	})
	return missing
}
