// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"errors"
	"strings"
	"testing"

	"github.com/maborak/ai-course-generator/pkg/types"
)

func pipesSpec() types.ChapterSpec {
	return types.ChapterSpec{Index: 2, Title: "Pipes", ShortTitle: "Pipes"}
}

func TestValidateChapterAccepts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"exact heading", "## 2.- Pipes\n\nBody."},
		{"leading blank lines", "\n\n## 2.- Pipes\nBody."},
		{"leading whitespace lines", "   \n\t\n## 2.- Pipes\nBody."},
		{"crlf line endings", "## 2.- Pipes\r\nBody.\r\n"},
		{"heading only", "## 2.- Pipes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := ValidateChapter(tt.raw, pipesSpec())
			if err != nil {
				t.Fatalf("ValidateChapter: %v", err)
			}
			if !strings.HasPrefix(body, "## 2.- Pipes") {
				t.Errorf("body = %q, should start with the heading", body)
			}
		})
	}
}

func TestValidateChapterRejects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantGot string
	}{
		{"no heading", "Pipes are great.\n## 2.- Pipes\n", "Pipes are great."},
		{"wrong index", "## 3.- Pipes\nBody.", "## 3.- Pipes"},
		{"trailing text on heading", "## 2.- Pipes and more\nBody.", "## 2.- Pipes and more"},
		{"title extended", "## 2.- PipesX\nBody.", "## 2.- PipesX"},
		{"extra heading spaces", "##  2.- Pipes\nBody.", "##  2.- Pipes"},
		{"missing dot dash", "## 2. Pipes\nBody.", "## 2. Pipes"},
		{"lowercase title", "## 2.- pipes\nBody.", "## 2.- pipes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateChapter(tt.raw, pipesSpec())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Index != 2 {
				t.Errorf("Index = %d, want 2", verr.Index)
			}
			if verr.Got != tt.wantGot {
				t.Errorf("Got = %q, want %q", verr.Got, tt.wantGot)
			}
			if verr.Expected != "## 2.- Pipes" {
				t.Errorf("Expected = %q", verr.Expected)
			}
		})
	}
}

func TestValidateChapterEmptyResponse(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "   \n\t"} {
		_, err := ValidateChapter(raw, pipesSpec())
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ValidateChapter(%q) error = %v, want *ValidationError", raw, err)
		}
		if !strings.Contains(verr.Error(), "empty response") {
			t.Errorf("error = %q, should mention the empty response", verr.Error())
		}
	}
}

func TestValidateChapterTrimsTrailingNewlines(t *testing.T) {
	body, err := ValidateChapter("## 2.- Pipes\nBody.\n\n\n", pipesSpec())
	if err != nil {
		t.Fatalf("ValidateChapter: %v", err)
	}
	if body != "## 2.- Pipes\nBody." {
		t.Errorf("body = %q, want trailing newlines trimmed", body)
	}
}

func TestGenerationFailureUnwrap(t *testing.T) {
	inner := &ValidationError{Index: 2, Expected: "## 2.- Pipes", Got: "nope"}
	failure := &GenerationFailure{Stage: "chapter 2", Attempts: 2, Err: inner}

	var verr *ValidationError
	if !errors.As(failure, &verr) {
		t.Error("errors.As should reach the wrapped validation error")
	}
	msg := failure.Error()
	if !strings.Contains(msg, "chapter 2") || !strings.Contains(msg, "2 attempts") {
		t.Errorf("Error() = %q", msg)
	}
}
