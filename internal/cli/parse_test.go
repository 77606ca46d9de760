package cli

import (
	"testing"

	"github.com/xolan/tally/internal/model"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.arg, "entry")
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestSplitProjectRef(t *testing.T) {
	tests := []struct {
		input       string
		wantTitle   string
		wantProject string
	}{
		{"write intro", "write intro", ""},
		{"write intro @thesis", "write intro", "thesis"},
		{"@thesis write   intro", "write intro", "thesis"},
		{"a @one b @two", "a b", "two"},
		{"@only", "", "only"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			title, project := SplitProjectRef(tt.input)
			if title != tt.wantTitle || project != tt.wantProject {
				t.Errorf("SplitProjectRef(%q) = (%q, %q), want (%q, %q)",
					tt.input, title, project, tt.wantTitle, tt.wantProject)
			}
		})
	}
}

func TestFindProject(t *testing.T) {
	projects := []*model.Project{{ID: 1, Name: "Thesis"}, {ID: 2, Name: "side-gig"}}
	if p, ok := FindProject(projects, "thesis"); !ok || p.ID != 1 {
		t.Errorf("FindProject(thesis) = %v, %v", p, ok)
	}
	if _, ok := FindProject(projects, "missing"); ok {
		t.Error("FindProject(missing) found a project")
	}
}
