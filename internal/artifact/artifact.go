// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact turns an assembled document into output files. The
// markdown artifact is written first, html and epub are converted from
// it, and pdf is rendered from the html file. Formats fail
// independently: a converter error is recorded on that format's record
// and production moves on.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/internal/document"
	"github.com/maborak/ai-course-generator/pkg/types"
)

// defaultTheme is the stylesheet used when the requested theme is
// missing or none was named.
const defaultTheme = "default.css"

// Converter produces the derived formats. *convert.Converter satisfies it.
type Converter interface {
	HTML(mdPath, outPath, themePath string) error
	EPUB(mdPath, outPath, themePath string) error
	PDF(htmlPath, outPath string) error
}

// Options configures a Manager.
type Options struct {
	Converter Converter
	OutputDir string
	ThemesDir string

	// Progress receives per-artifact status lines. Defaults to io.Discard.
	Progress io.Writer

	Log *logrus.Logger
}

// Manager plans and produces the artifact files for a run.
type Manager struct {
	conv      Converter
	outDir    string
	themesDir string
	w         io.Writer
	log       *logrus.Logger
}

// NewManager returns a Manager writing under opts.OutputDir.
func NewManager(opts Options) *Manager {
	w := opts.Progress
	if w == nil {
		w = io.Discard
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	return &Manager{
		conv:      opts.Converter,
		outDir:    opts.OutputDir,
		themesDir: opts.ThemesDir,
		w:         w,
		log:       log,
	}
}

// Produce renders the document and writes one artifact per requested
// format, in dependency order regardless of the order given. Existing
// targets are skipped unless cfg.Force is set. The returned set holds
// one record per requested format; the error is non-nil only when the
// document itself cannot be rendered or the output directory cannot be
// created.
func (m *Manager) Produce(doc *types.Document, cfg types.GenerationConfig, formats []types.ArtifactFormat) (*types.ArtifactSet, error) {
	rendered, err := document.Markdown(doc)
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}
	if err := os.MkdirAll(m.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	requested := make(map[types.ArtifactFormat]bool, len(formats))
	for _, f := range formats {
		requested[f] = true
	}

	theme := m.resolveTheme(cfg.Theme)
	base := BasePath(m.outDir, cfg)

	set := &types.ArtifactSet{}
	for _, f := range types.AllFormats() {
		if !requested[f] {
			continue
		}
		set.Add(m.produce(f, base, rendered, theme, cfg.Force))
	}

	fmt.Fprintf(m.w, "\nArtifacts: %d produced, %d skipped, %d failed\n",
		set.Count(types.ArtifactProduced), set.Count(types.ArtifactSkipped), set.Count(types.ArtifactFailed))
	return set, nil
}

func (m *Manager) produce(f types.ArtifactFormat, base, rendered, theme string, force bool) types.Artifact {
	path := base + "." + f.Ext()
	name := filepath.Base(path)

	if fileExists(path) && !force {
		fmt.Fprintf(m.w, "skipped:  %s (already exists)\n", name)
		return types.Artifact{Format: f, Path: path, Status: types.ArtifactSkipped}
	}

	var err error
	switch f {
	case types.FormatMarkdown:
		err = os.WriteFile(path, []byte(rendered), 0o644)
	case types.FormatHTML:
		err = m.conv.HTML(base+".md", path, theme)
	case types.FormatEPUB:
		err = m.conv.EPUB(base+".md", path, theme)
	case types.FormatPDF:
		htmlPath := base + ".html"
		if !fileExists(htmlPath) {
			err = fmt.Errorf("html artifact %s not found; pdf is rendered from it", filepath.Base(htmlPath))
		} else {
			err = m.conv.PDF(htmlPath, path)
		}
	default:
		err = fmt.Errorf("unknown format %q", f)
	}

	if err != nil {
		fmt.Fprintf(m.w, "failed:   %s (%v)\n", name, err)
		return types.Artifact{Format: f, Path: path, Status: types.ArtifactFailed, Diagnostic: err.Error()}
	}
	fmt.Fprintf(m.w, "produced: %s\n", name)
	return types.Artifact{Format: f, Path: path, Status: types.ArtifactProduced}
}

// resolveTheme maps a theme name to a stylesheet path. A missing named
// theme falls back to default.css with a warning; when that is missing
// too the converters run unstyled.
func (m *Manager) resolveTheme(name string) string {
	if name == "" {
		name = defaultTheme
	}
	if filepath.Ext(name) == "" {
		name += ".css"
	}

	path := filepath.Join(m.themesDir, name)
	if fileExists(path) {
		return path
	}

	if name != defaultTheme {
		fallback := filepath.Join(m.themesDir, defaultTheme)
		if fileExists(fallback) {
			m.log.Warnf("theme %q not found in %s, using %s", name, m.themesDir, defaultTheme)
			return fallback
		}
	}
	m.log.Warnf("no stylesheet for theme %q in %s, converting unstyled", name, m.themesDir)
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
