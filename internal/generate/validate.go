// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strings"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// ValidationError reports a chapter response that does not open with its
// required heading line.
type ValidationError struct {
	Index    int
	Expected string
	Got      string
}

func (e *ValidationError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("chapter %d: empty response, expected heading %q", e.Index, e.Expected)
	}
	return fmt.Sprintf("chapter %d: first line %q does not match required heading %q", e.Index, e.Got, e.Expected)
}

// GenerationFailure aborts a run once a stage has exhausted its corrective
// retry budget. No partial document is produced.
type GenerationFailure struct {
	Stage    string
	Attempts int
	Err      error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed at %s after %d attempts: %v", e.Stage, e.Attempts, e.Err)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }

// ValidateChapter checks that a chapter response opens with the chapter's
// required heading. Blank lines before the heading are dropped and a
// trailing carriage return on the heading line is tolerated; the heading
// itself must match byte for byte, with nothing appended. The returned
// body keeps the heading line and everything after it.
func ValidateChapter(raw string, spec types.ChapterSpec) (string, error) {
	lines := strings.Split(raw, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i == len(lines) {
		return "", &ValidationError{Index: spec.Index, Expected: spec.Anchor()}
	}
	first := strings.TrimSuffix(lines[i], "\r")
	if first != spec.Anchor() {
		return "", &ValidationError{Index: spec.Index, Expected: spec.Anchor(), Got: first}
	}
	return strings.TrimRight(strings.Join(lines[i:], "\n"), "\r\n"), nil
}
