package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sdejongh/filedrift/pkg/models"
)

// CSVHeader is the fixed column order of the output file.
var CSVHeader = []string{
	"relative_path",
	"source_path",
	"source_size",
	"target_path",
	"target_size",
	"found_at_path",
	"match_type",
	"confidence",
	"status",
	"duplicate_group",
}

// WriteCSV writes the comparison rows to path. Write failures are hard
// errors; a partially written file is never reported as success.
func WriteCSV(path string, rows []*models.ComparisonRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(CSVFields(row)); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.RelativePath, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// CSVFields renders one row into the column order of CSVHeader.
// Target-side sizes render as empty strings when no match exists.
func CSVFields(row *models.ComparisonRow) []string {
	targetSize := ""
	if row.MatchType != models.MatchNone {
		targetSize = strconv.FormatInt(row.TargetSize, 10)
	}

	return []string{
		row.RelativePath,
		row.SourcePath,
		strconv.FormatInt(row.SourceSize, 10),
		row.TargetPath,
		targetSize,
		row.FoundAtPath,
		string(row.MatchType),
		string(row.Confidence),
		string(row.Status),
		strings.Join(row.DuplicateGroup, "; "),
	}
}
