package reconcile

import (
	"reflect"
	"testing"

	"github.com/sdejongh/filedrift/pkg/models"
)

func TestResolveDuplicates(t *testing.T) {
	source := makeInventory("/src", map[string]int64{
		"a/track.mp3": 100,
		"b/track.mp3": 100,
		"c/track.mp3": 100,
	})
	target := makeInventory("/dst", map[string]int64{
		"music/track.mp3": 100,
	})

	c := classify(source, target)
	ResolveDuplicates(c.Moved, c.DuplicateGroups)

	tests := []struct {
		rel      string
		siblings []string
	}{
		{"a/track.mp3", []string{"b/track.mp3", "c/track.mp3"}},
		{"b/track.mp3", []string{"a/track.mp3", "c/track.mp3"}},
		{"c/track.mp3", []string{"a/track.mp3", "b/track.mp3"}},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			row := findRow(c.Moved, tt.rel)
			if row == nil {
				t.Fatalf("no row for %s", tt.rel)
			}
			if !reflect.DeepEqual(row.DuplicateGroup, tt.siblings) {
				t.Errorf("DuplicateGroup = %v, want %v", row.DuplicateGroup, tt.siblings)
			}
		})
	}
}

func TestResolveDuplicatesSkipsNonDuplicates(t *testing.T) {
	source := makeInventory("/src", map[string]int64{
		"solo.txt": 50,
	})
	target := makeInventory("/dst", map[string]int64{
		"sub/solo.txt": 50,
	})

	c := classify(source, target)
	ResolveDuplicates(c.Moved, c.DuplicateGroups)

	row := findRow(c.Moved, "solo.txt")
	if row == nil {
		t.Fatal("no row for solo.txt")
	}
	if row.Status != models.StatusMoved {
		t.Errorf("Status = %s, want moved", row.Status)
	}
	if len(row.DuplicateGroup) != 0 {
		t.Errorf("DuplicateGroup = %v, want empty", row.DuplicateGroup)
	}
}
