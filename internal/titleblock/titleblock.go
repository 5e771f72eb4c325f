// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package titleblock parses the chapter plan wire format produced by title
// generation.
//
// The expected shape is a single <TITLE_BLOCK> pair holding one line per
// chapter ("N. Full Title | Short Title") followed by a single
// <TITLE_OVERVIEW> pair holding a one-paragraph summary. Text outside the
// delimiter pairs is ignored. Checks run in a fixed order: block presence,
// line shape, index contiguity, entry count, title uniqueness, overview
// presence. The first violated check wins.
package titleblock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/maborak/ai-course-generator/pkg/types"
)

var (
	titleBlockRE = regexp.MustCompile(`(?si)<TITLE_BLOCK>(.*?)</TITLE_BLOCK>`)
	overviewRE   = regexp.MustCompile(`(?si)<TITLE_OVERVIEW>(.*?)</TITLE_OVERVIEW>`)
	entryRE      = regexp.MustCompile(`^(\d+)\.\s*(.*?)\s*\|\s*(.*)$`)
)

// Reason classifies a title block parse failure.
type Reason string

const (
	ReasonMissingBlock   Reason = "missing_block"
	ReasonMalformedLine  Reason = "malformed_line"
	ReasonIndexMismatch  Reason = "index_mismatch"
	ReasonCountMismatch  Reason = "count_mismatch"
	ReasonDuplicateTitle Reason = "duplicate_title"
	ReasonOverviewBlock  Reason = "overview_block"
)

// ParseError describes why a title generation response was rejected. Its
// text names the violated rule so it can be fed back to the model on retry.
type ParseError struct {
	Reason Reason

	// Line is the 1-based offending line within the block when the
	// failure is line-scoped, 0 otherwise.
	Line int

	// Detail explains the violation.
	Detail string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("title block %s at line %d: %s", e.Reason, e.Line, e.Detail)
	}
	return fmt.Sprintf("title block %s: %s", e.Reason, e.Detail)
}

// Plan is the parsed outcome of a title generation response.
type Plan struct {
	// Specs hold one entry per chapter, indices contiguous from the
	// starting index.
	Specs []types.ChapterSpec

	// Overview is the trimmed single-paragraph document summary.
	Overview string
}

// Parse extracts a chapter plan with indices starting at 1.
func Parse(raw string, expected int) (*Plan, error) {
	return ParseStartingAt(raw, 1, expected)
}

// ParseStartingAt extracts a chapter plan whose indices must run
// contiguously from start and hold exactly expected entries. Failures are
// *ParseError values.
func ParseStartingAt(raw string, start, expected int) (*Plan, error) {
	blocks := titleBlockRE.FindAllStringSubmatch(raw, -1)
	if len(blocks) == 0 {
		return nil, &ParseError{Reason: ReasonMissingBlock, Detail: "no <TITLE_BLOCK>...</TITLE_BLOCK> pair in response"}
	}
	if len(blocks) > 1 {
		return nil, &ParseError{Reason: ReasonMissingBlock, Detail: fmt.Sprintf("%d <TITLE_BLOCK> pairs in response, want exactly one", len(blocks))}
	}

	var specs []types.ChapterSpec
	for i, line := range strings.Split(blocks[0][1], "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		m := entryRE.FindStringSubmatch(trimmed)
		if m == nil {
			return nil, &ParseError{
				Reason: ReasonMalformedLine,
				Line:   i + 1,
				Detail: fmt.Sprintf("%q does not match \"N. Full Title | Short Title\"", trimmed),
			}
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &ParseError{
				Reason: ReasonMalformedLine,
				Line:   i + 1,
				Detail: fmt.Sprintf("index %q is not a usable number", m[1]),
			}
		}
		full, short := m[2], m[3]
		if full == "" {
			return nil, &ParseError{
				Reason: ReasonMalformedLine,
				Line:   i + 1,
				Detail: "full title is empty",
			}
		}
		if short == "" {
			short = full
		}
		specs = append(specs, types.ChapterSpec{Index: index, Title: full, ShortTitle: short})
	}

	for i, s := range specs {
		if want := start + i; s.Index != want {
			return nil, &ParseError{
				Reason: ReasonIndexMismatch,
				Detail: fmt.Sprintf("entry %d has index %d, want %d", i+1, s.Index, want),
			}
		}
	}
	if len(specs) != expected {
		return nil, &ParseError{
			Reason: ReasonCountMismatch,
			Detail: fmt.Sprintf("block holds %d entries, want exactly %d", len(specs), expected),
		}
	}

	seen := make(map[string]int, len(specs))
	for _, s := range specs {
		if prev, dup := seen[s.Title]; dup {
			return nil, &ParseError{
				Reason: ReasonDuplicateTitle,
				Detail: fmt.Sprintf("title %q appears at indices %d and %d", s.Title, prev, s.Index),
			}
		}
		seen[s.Title] = s.Index
	}

	overviews := overviewRE.FindAllStringSubmatch(raw, -1)
	if len(overviews) == 0 {
		return nil, &ParseError{Reason: ReasonOverviewBlock, Detail: "no <TITLE_OVERVIEW>...</TITLE_OVERVIEW> pair in response"}
	}
	if len(overviews) > 1 {
		return nil, &ParseError{Reason: ReasonOverviewBlock, Detail: fmt.Sprintf("%d <TITLE_OVERVIEW> pairs in response, want exactly one", len(overviews))}
	}

	return &Plan{Specs: specs, Overview: strings.TrimSpace(overviews[0][1])}, nil
}
