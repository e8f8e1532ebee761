package reconcile

import (
	"sort"

	"github.com/sdejongh/filedrift/pkg/models"
)

// ProgressFunc reports classification progress: done of total records.
type ProgressFunc func(done, total int)

// Classify partitions every source record into in_both, moved
// (including duplicate_on_source) or only_on_source by applying an
// ordered decision cascade, first matching rule wins:
//
//  1. The identity key exists in the target: in_both, exact path, high
//     confidence.
//  2. The case-folded filename has target candidates of the same size:
//     the first candidate in path order is the match, high confidence.
//     The row becomes duplicate_on_source instead of moved when the
//     source itself holds more than one file under that name.
//  3. The filename has candidates of other sizes only: first candidate,
//     medium confidence, moved.
//  4. No candidate at all: only_on_source.
//
// Matching is by name and size, never content. Source records are
// visited in path order, so repeated runs over the same inventories
// produce identical output.
func Classify(source, target *models.TreeInventory, targetIndex, sourceIndex models.FilenameIndex, onProgress ProgressFunc) *models.Classification {
	c := models.NewClassification()

	records := source.SortedRecords()
	total := len(records)

	for i, rec := range records {
		name := models.FoldName(rec.RelativePath)

		switch {
		case target.Files[rec.IdentityKey] != nil:
			match := target.Files[rec.IdentityKey]
			c.InBoth = append(c.InBoth, &models.ComparisonRow{
				RelativePath: rec.RelativePath,
				SourcePath:   rec.AbsolutePath,
				SourceSize:   rec.Size,
				TargetPath:   match.AbsolutePath,
				TargetSize:   match.Size,
				MatchType:    models.MatchExactPath,
				Confidence:   models.ConfidenceHigh,
				Status:       models.StatusInBoth,
			})

		case len(targetIndex[name]) > 0:
			candidates := targetIndex[name]
			best, sameSize := bestCandidate(candidates, rec.Size)

			if sameSize {
				status := models.StatusMoved
				if len(sourceIndex[name]) > 1 {
					status = models.StatusDuplicateOnSource
					key := models.DuplicateKey{Size: rec.Size, Name: name}
					c.DuplicateGroups[key] = append(c.DuplicateGroups[key], rec.RelativePath)
				}
				c.Moved = append(c.Moved, &models.ComparisonRow{
					RelativePath: rec.RelativePath,
					SourcePath:   rec.AbsolutePath,
					SourceSize:   rec.Size,
					TargetPath:   best.AbsolutePath,
					TargetSize:   best.Size,
					FoundAtPath:  best.RelativePath,
					MatchType:    models.MatchFilenameSameSize,
					Confidence:   models.ConfidenceHigh,
					Status:       status,
				})
			} else {
				c.Moved = append(c.Moved, &models.ComparisonRow{
					RelativePath: rec.RelativePath,
					SourcePath:   rec.AbsolutePath,
					SourceSize:   rec.Size,
					TargetPath:   best.AbsolutePath,
					TargetSize:   best.Size,
					FoundAtPath:  best.RelativePath,
					MatchType:    models.MatchFilenameDiffSize,
					Confidence:   models.ConfidenceMedium,
					Status:       models.StatusMoved,
				})
			}

		default:
			c.OnlyOnSource = append(c.OnlyOnSource, &models.ComparisonRow{
				RelativePath: rec.RelativePath,
				SourcePath:   rec.AbsolutePath,
				SourceSize:   rec.Size,
				MatchType:    models.MatchNone,
				Confidence:   models.ConfidenceNone,
				Status:       models.StatusOnlyOnSource,
			})
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	return c
}

// bestCandidate picks the first same-size candidate, or the first
// candidate of any size when none matches. Index buckets are in path
// order, so "first" is a pinned, reproducible tie-break.
func bestCandidate(candidates []*models.FileRecord, size int64) (best *models.FileRecord, sameSize bool) {
	for _, cand := range candidates {
		if cand.Size == size {
			return cand, true
		}
	}
	return candidates[0], false
}

// InterestingRows merges the only_on_source and moved partitions into
// the flat output row list, sorted by relative path. in_both rows are
// never part of the output. With excludeHighConfMoved set, moved rows
// with high confidence are dropped; duplicate_on_source rows are kept
// regardless of confidence.
func InterestingRows(c *models.Classification, excludeHighConfMoved bool) (rows []*models.ComparisonRow, excluded int) {
	rows = make([]*models.ComparisonRow, 0, len(c.OnlyOnSource)+len(c.Moved))
	rows = append(rows, c.OnlyOnSource...)

	for _, row := range c.Moved {
		if excludeHighConfMoved && row.Status == models.StatusMoved && row.Confidence == models.ConfidenceHigh {
			excluded++
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].RelativePath < rows[j].RelativePath
	})
	return rows, excluded
}
