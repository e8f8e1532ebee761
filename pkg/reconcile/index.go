package reconcile

import (
	"github.com/sdejongh/filedrift/pkg/models"
)

// BuildFilenameIndex groups every record of an inventory under its
// case-folded base filename. Records are appended in path order, so the
// first entry of a bucket is the lexicographically smallest path
// carrying that name. No deduplication: three files named readme.txt
// yield a three-element bucket.
func BuildFilenameIndex(inv *models.TreeInventory) models.FilenameIndex {
	index := make(models.FilenameIndex)
	for _, rec := range inv.SortedRecords() {
		name := models.FoldName(rec.RelativePath)
		index[name] = append(index[name], rec)
	}
	return index
}
