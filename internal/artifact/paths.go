// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/maborak/ai-course-generator/pkg/types"
)

var (
	nonWordRE = regexp.MustCompile(`[^\w\s-]`)
	sepRE     = regexp.MustCompile(`[-\s]+`)
)

// Slug normalizes a name fragment for artifact file names: trimmed,
// lowercased, punctuation stripped, runs of whitespace and hyphens
// collapsed to single underscores.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWordRE.ReplaceAllString(s, "")
	return sepRE.ReplaceAllString(s, "_")
}

// BasePath returns the canonical artifact path for a run, without the
// format extension:
//
//	<out>/<topic>_<category>_<expertise>_<engine>_<model>
//
// All fragments except the engine id pass through Slug.
func BasePath(outDir string, cfg types.GenerationConfig) string {
	name := strings.Join([]string{
		Slug(cfg.Topic),
		Slug(string(cfg.Category)),
		Slug(string(cfg.ExpertiseLevel)),
		string(cfg.Engine),
		Slug(cfg.Model),
	}, "_")
	return filepath.Join(outDir, name)
}

// Path returns the canonical path for one artifact format.
func Path(outDir string, cfg types.GenerationConfig, f types.ArtifactFormat) string {
	return BasePath(outDir, cfg) + "." + f.Ext()
}
