package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maborak/ai-course-generator/pkg/types"
)

const probeMarkdown = "# Conversion check\n\nThis probe verifies the conversion toolchain.\n"

// derivedFormats are the formats that require an external converter.
var derivedFormats = []types.ArtifactFormat{types.FormatHTML, types.FormatEPUB, types.FormatPDF}

// CheckResult reports one derived format's conversion preflight outcome.
type CheckResult struct {
	Format types.ArtifactFormat
	Err    error
}

// OK reports whether the conversion succeeded.
func (r CheckResult) OK() bool { return r.Err == nil }

// Check converts a small probe document into every derived format in a
// temporary directory and reports the per-format outcome. Probe files
// are removed before returning.
func (m *Manager) Check() []CheckResult {
	tmpDir, err := os.MkdirTemp("", "coursegen-check-")
	if err != nil {
		return allFailed(fmt.Errorf("creating probe directory: %w", err))
	}
	defer os.RemoveAll(tmpDir)

	mdPath := filepath.Join(tmpDir, "probe.md")
	if err := os.WriteFile(mdPath, []byte(probeMarkdown), 0o644); err != nil {
		return allFailed(fmt.Errorf("writing probe markdown: %w", err))
	}

	htmlPath := filepath.Join(tmpDir, "probe.html")
	results := []CheckResult{
		{Format: types.FormatHTML, Err: m.conv.HTML(mdPath, htmlPath, "")},
		{Format: types.FormatEPUB, Err: m.conv.EPUB(mdPath, filepath.Join(tmpDir, "probe.epub"), "")},
	}

	pdfErr := fmt.Errorf("html probe not produced; pdf is rendered from it")
	if fileExists(htmlPath) {
		pdfErr = m.conv.PDF(htmlPath, filepath.Join(tmpDir, "probe.pdf"))
	}
	results = append(results, CheckResult{Format: types.FormatPDF, Err: pdfErr})
	return results
}

func allFailed(err error) []CheckResult {
	out := make([]CheckResult, 0, len(derivedFormats))
	for _, f := range derivedFormats {
		out = append(out, CheckResult{Format: f, Err: err})
	}
	return out
}
