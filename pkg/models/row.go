package models

// MatchType describes how a source file was matched against the target
type MatchType string

const (
	// MatchExactPath means the identity key exists verbatim in the target
	MatchExactPath MatchType = "exact_path"
	// MatchFilenameSameSize means a same-name same-size file was found elsewhere
	MatchFilenameSameSize MatchType = "filename_same_size"
	// MatchFilenameDiffSize means only a same-name file of another size was found
	MatchFilenameDiffSize MatchType = "filename_diff_size"
	// MatchNone means no candidate was found at all
	MatchNone MatchType = "none"
)

// Confidence qualifies how reliable a match is. Matching is by name and
// size only, never content, so even high confidence is a heuristic.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceNone   Confidence = "none"
)

// Status is the classification outcome for one source file
type Status string

const (
	// StatusInBoth means the file exists at the same relative path on both sides
	StatusInBoth Status = "in_both"
	// StatusMoved means the file was found under a different path
	StatusMoved Status = "moved"
	// StatusDuplicateOnSource means the file moved but shares name and size
	// with other source files, so the target match is ambiguous
	StatusDuplicateOnSource Status = "duplicate_on_source"
	// StatusOnlyOnSource means the file is absent from the target
	StatusOnlyOnSource Status = "only_on_source"
)

// ComparisonRow is the classification result for exactly one source file.
type ComparisonRow struct {
	RelativePath string
	SourcePath   string
	SourceSize   int64

	// Target-side fields are meaningful only when MatchType != MatchNone
	TargetPath  string
	TargetSize  int64
	FoundAtPath string

	MatchType  MatchType
	Confidence Confidence
	Status     Status

	// DuplicateGroup lists the sibling source paths sharing this file's
	// name and size, never including the row's own path
	DuplicateGroup []string
}

// DuplicateKey identifies a group of source files sharing size and
// case-folded filename.
type DuplicateKey struct {
	Size int64
	Name string
}

// Classification is the classifier output: a partition of all source
// records plus the raw duplicate group registrations.
type Classification struct {
	InBoth       []*ComparisonRow
	Moved        []*ComparisonRow // includes duplicate_on_source rows
	OnlyOnSource []*ComparisonRow

	// DuplicateGroups maps a (size, folded name) key to the source paths
	// registered under it, in classification order
	DuplicateGroups map[DuplicateKey][]string
}

// NewClassification creates an empty classification.
func NewClassification() *Classification {
	return &Classification{
		DuplicateGroups: make(map[DuplicateKey][]string),
	}
}

// Total returns the number of classified source files.
func (c *Classification) Total() int {
	return len(c.InBoth) + len(c.Moved) + len(c.OnlyOnSource)
}
