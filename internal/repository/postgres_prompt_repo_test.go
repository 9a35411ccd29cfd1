package repository

import (
	"strings"
	"testing"
)

func TestResolveSortColumn(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty defaults to created_at", "", "created_at", false},
		{"created_at", "created_at", "created_at", false},
		{"updated_at", "updated_at", "updated_at", false},
		{"title", "title", "title", false},
		{"usage_count", "usage_count", "usage_count", false},
		{"like_count", "like_count", "like_count", false},
		{"unknown column rejected", "password_hash", "", true},
		{"injection rejected", "created_at; DROP TABLE prompts", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSortColumn(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("resolveSortColumn(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveSortColumn(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("resolveSortColumn(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
		{`a%b_c\d`, `a\%b\_c\\d`},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.input); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildPromptUpdateSets_NilFieldsAreSkipped(t *testing.T) {
	sets, args := buildPromptUpdateSets(PromptUpdate{})

	// updated_atのみ常に更新される
	if len(sets) != 1 || !strings.Contains(sets[0], "updated_at") {
		t.Errorf("sets = %v, want only updated_at", sets)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuildPromptUpdateSets_PresentFieldsAreIncluded(t *testing.T) {
	title := "new title"
	isPublic := false
	sets, args := buildPromptUpdateSets(PromptUpdate{
		Title:    &title,
		IsPublic: &isPublic,
	})

	joined := strings.Join(sets, ", ")
	if !strings.Contains(joined, "title") {
		t.Errorf("sets = %v, want title included", sets)
	}
	if !strings.Contains(joined, "is_public") {
		t.Errorf("sets = %v, want is_public included", sets)
	}
	if !strings.Contains(joined, "updated_at") {
		t.Errorf("sets = %v, want updated_at included", sets)
	}

	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 entries", args)
	}
	if args[0] != "new title" {
		t.Errorf("args[0] = %v, want %q", args[0], "new title")
	}
	if args[1] != false {
		t.Errorf("args[1] = %v, want false", args[1])
	}
}

func TestBuildPromptUpdateSets_FalseAndEmptyValuesAreApplied(t *testing.T) {
	// ゼロ値でもポインタが非nilなら上書き対象になる
	empty := ""
	featured := false
	sets, args := buildPromptUpdateSets(PromptUpdate{
		Description: &empty,
		IsFeatured:  &featured,
	})

	joined := strings.Join(sets, ", ")
	if !strings.Contains(joined, "description") || !strings.Contains(joined, "is_featured") {
		t.Errorf("sets = %v, want description and is_featured", sets)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2 entries", args)
	}
}
