// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Recognized template variable names.
const (
	VarTopic             = "TOPIC"
	VarQuantity          = "QUANTITY"
	VarCategory          = "CATEGORY"
	VarExpertiseLevel    = "EXPERTISE_LEVEL"
	VarContextNote       = "CONTEXT_NOTE"
	VarChapterTitle      = "CHAPTER_TITLE"
	VarChapterShortTitle = "CHAPTER_SHORT_TITLE"
	VarChapterIndex      = "CHAPTER_INDEX"
	VarTotalChapters     = "TOTAL_CHAPTERS"
)

// recognized is the closed set of variables templates may reference.
var recognized = map[string]bool{
	VarTopic:             true,
	VarQuantity:          true,
	VarCategory:          true,
	VarExpertiseLevel:    true,
	VarContextNote:       true,
	VarChapterTitle:      true,
	VarChapterShortTitle: true,
	VarChapterIndex:      true,
	VarTotalChapters:     true,
}

var placeholderRE = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// SubstitutionError reports recognized placeholders that had no value at
// render time. A prompt is never dispatched with a recognized placeholder
// left literal.
type SubstitutionError struct {
	// Missing lists the affected variable names, sorted.
	Missing []string
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("template references unset variables: %s", strings.Join(e.Missing, ", "))
}

// Render substitutes vars into text. Every recognized {{NAME}} placeholder
// is replaced with its value; a recognized placeholder absent from vars
// fails the render with a *SubstitutionError. Placeholders outside the
// recognized set are left untouched and returned as warnings, sorted and
// deduplicated.
func Render(text string, vars map[string]string) (string, []string, error) {
	var missing, unknown []string
	seenMissing := make(map[string]bool)
	seenUnknown := make(map[string]bool)

	out := placeholderRE.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-2]
		if !recognized[name] {
			if !seenUnknown[name] {
				seenUnknown[name] = true
				unknown = append(unknown, name)
			}
			return m
		}
		v, ok := vars[name]
		if !ok {
			if !seenMissing[name] {
				seenMissing[name] = true
				missing = append(missing, name)
			}
			return m
		}
		return v
	})

	sort.Strings(unknown)
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", unknown, &SubstitutionError{Missing: missing}
	}
	return out, unknown, nil
}
