// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"testing"
	"time"
)

func TestParseExpertiseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    ExpertiseLevel
		wantErr bool
	}{
		{"Novice", LevelNovice, false},
		{"novice", LevelNovice, false},
		{"  EXPERT  ", LevelExpert, false},
		{"intermediate", LevelIntermediate, false},
		{"guru", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExpertiseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseExpertiseLevel(%q): expected error", tt.in)
			} else if !strings.Contains(err.Error(), "Novice") {
				t.Errorf("error %q should list the accepted levels", err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExpertiseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExpertiseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplateGroup(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryCourse, "course"},
		{Category("course"), "course"},
		{CategoryTip, "common"},
		{CategoryBestPractices, "common"},
		{Category("Cheatsheet"), "common"},
	}
	for _, tt := range tests {
		if got := tt.category.TemplateGroup(); got != tt.want {
			t.Errorf("TemplateGroup(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestAnchor(t *testing.T) {
	spec := ChapterSpec{Index: 3, Title: "Pipes & Filters"}
	if got := spec.Anchor(); got != "## 3.- Pipes & Filters" {
		t.Errorf("Anchor = %q", got)
	}
}

func TestTokenUsageAccumulates(t *testing.T) {
	var u TokenUsage
	u.Add(TokenUsage{Prompt: 10, Completion: 20})
	u.Add(TokenUsage{Prompt: 5, Completion: 15})

	if u.Prompt != 15 || u.Completion != 35 {
		t.Errorf("usage = %+v, want 15/35", u)
	}
	if u.Total() != 50 {
		t.Errorf("Total = %d, want 50", u.Total())
	}
}

func TestReadingTimeMinutes(t *testing.T) {
	doc := &Document{
		Overview: strings.Repeat("word ", 50),
		Chapters: []GeneratedChapter{
			{Spec: ChapterSpec{Index: 1, Title: "A"}, Body: strings.Repeat("word ", 350)},
		},
		GeneratedAt: time.Now(),
	}

	if got := doc.WordCount(); got != 400 {
		t.Errorf("WordCount = %d, want 400", got)
	}
	if got := doc.ReadingTimeMinutes(); got != 2 {
		t.Errorf("ReadingTimeMinutes = %d, want 2", got)
	}

	short := &Document{Overview: "tiny"}
	if got := short.ReadingTimeMinutes(); got != 1 {
		t.Errorf("ReadingTimeMinutes for short doc = %d, want 1", got)
	}
}

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{Prompt: 2000, Completion: 1000}

	var unpriced AIConfig
	if _, ok := unpriced.EstimateCost(usage); ok {
		t.Error("EstimateCost without rates should report false")
	}

	priced := AIConfig{CostPromptPer1K: 0.01, CostCompletionPer1K: 0.03}
	cost, ok := priced.EstimateCost(usage)
	if !ok {
		t.Fatal("EstimateCost with rates should report true")
	}
	if want := 0.05; cost < want-1e-9 || cost > want+1e-9 {
		t.Errorf("cost = %v, want %v", cost, want)
	}
}
