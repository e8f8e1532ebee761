package reconcile

import (
	"sort"

	"github.com/sdejongh/filedrift/pkg/models"
)

// ResolveDuplicates fills in the DuplicateGroup field of every
// duplicate_on_source row: the sibling paths registered under the
// row's (size, folded filename) key, sorted, with the row's own path
// removed. Rows left without siblings keep an empty group.
func ResolveDuplicates(moved []*models.ComparisonRow, groups map[models.DuplicateKey][]string) {
	for _, row := range moved {
		if row.Status != models.StatusDuplicateOnSource {
			continue
		}

		key := models.DuplicateKey{
			Size: row.SourceSize,
			Name: models.FoldName(row.RelativePath),
		}

		var siblings []string
		for _, p := range groups[key] {
			if p != row.RelativePath {
				siblings = append(siblings, p)
			}
		}
		if len(siblings) == 0 {
			continue
		}

		sort.Strings(siblings)
		row.DuplicateGroup = siblings
	}
}
