// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// convCall records one converter invocation.
type convCall struct {
	kind  string
	in    string
	out   string
	theme string
}

// fakeConverter writes placeholder output files and records calls, so
// dependency checks against the filesystem behave as in production.
type fakeConverter struct {
	calls []convCall
	fail  map[types.ArtifactFormat]error
}

func (f *fakeConverter) HTML(mdPath, outPath, themePath string) error {
	f.calls = append(f.calls, convCall{"html", mdPath, outPath, themePath})
	if err := f.fail[types.FormatHTML]; err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("<html></html>"), 0o644)
}

func (f *fakeConverter) EPUB(mdPath, outPath, themePath string) error {
	f.calls = append(f.calls, convCall{"epub", mdPath, outPath, themePath})
	if err := f.fail[types.FormatEPUB]; err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("epub"), 0o644)
}

func (f *fakeConverter) PDF(htmlPath, outPath string) error {
	f.calls = append(f.calls, convCall{"pdf", htmlPath, outPath, ""})
	if err := f.fail[types.FormatPDF]; err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("%PDF"), 0o644)
}

func sampleDocument() *types.Document {
	return &types.Document{
		Topic:          "Linux Pipes",
		Category:       types.CategoryTip,
		ExpertiseLevel: types.LevelNovice,
		Engine:         types.EngineOpenAI,
		Model:          "gpt-4o",
		Overview:       "A short overview.",
		Chapters: []types.GeneratedChapter{
			{
				Spec: types.ChapterSpec{Index: 1, Title: "Alpha"},
				Body: "## 1.- Alpha\n\nAlpha body.",
			},
		},
		Usage:       types.TokenUsage{Prompt: 10, Completion: 20},
		GeneratedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}
}

func testGenConfig() types.GenerationConfig {
	return types.GenerationConfig{
		Topic:          "Linux Pipes",
		Quantity:       1,
		Category:       types.CategoryTip,
		ExpertiseLevel: types.LevelNovice,
		Engine:         types.EngineOpenAI,
		Model:          "gpt-4o",
	}
}

func newTestManager(t *testing.T, conv Converter) (*Manager, string, *bytes.Buffer) {
	t.Helper()
	outDir := filepath.Join(t.TempDir(), "out")
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := NewManager(Options{
		Converter: conv,
		OutputDir: outDir,
		ThemesDir: filepath.Join(outDir, "no-themes"),
		Progress:  &buf,
		Log:       log,
	})
	return m, outDir, &buf
}

func TestProduceAllFormats(t *testing.T) {
	conv := &fakeConverter{}
	m, outDir, buf := newTestManager(t, conv)

	set, err := m.Produce(sampleDocument(), testGenConfig(), types.AllFormats())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}

	if len(set.Artifacts) != 4 {
		t.Fatalf("records = %d, want 4", len(set.Artifacts))
	}
	base := filepath.Join(outDir, "linux_pipes_tip_novice_openai_gpt_4o")
	wantPaths := []string{base + ".md", base + ".html", base + ".epub", base + ".pdf"}
	for i, a := range set.Artifacts {
		if a.Status != types.ArtifactProduced {
			t.Errorf("artifact %s status = %q, want produced (%s)", a.Format, a.Status, a.Diagnostic)
		}
		if a.Path != wantPaths[i] {
			t.Errorf("artifact %s path = %q, want %q", a.Format, a.Path, wantPaths[i])
		}
		if _, err := os.Stat(a.Path); err != nil {
			t.Errorf("artifact file %s missing: %v", a.Path, err)
		}
	}

	data, err := os.ReadFile(base + ".md")
	if err != nil {
		t.Fatalf("reading markdown artifact: %v", err)
	}
	if !strings.Contains(string(data), "# Linux Pipes") {
		t.Error("markdown artifact should contain the document header")
	}

	// pdf converts from the html artifact, not the markdown.
	last := conv.calls[len(conv.calls)-1]
	if last.kind != "pdf" || last.in != base+".html" {
		t.Errorf("pdf call = %+v, want input %s", last, base+".html")
	}

	if !strings.Contains(buf.String(), "Artifacts: 4 produced, 0 skipped, 0 failed") {
		t.Errorf("progress output missing summary:\n%s", buf.String())
	}
}

func TestProduceSecondRunSkips(t *testing.T) {
	conv := &fakeConverter{}
	m, _, buf := newTestManager(t, conv)
	doc, cfg := sampleDocument(), testGenConfig()

	if _, err := m.Produce(doc, cfg, types.AllFormats()); err != nil {
		t.Fatalf("first Produce: %v", err)
	}
	callsAfterFirst := len(conv.calls)
	buf.Reset()

	set, err := m.Produce(doc, cfg, types.AllFormats())
	if err != nil {
		t.Fatalf("second Produce: %v", err)
	}

	if got := set.Count(types.ArtifactSkipped); got != 4 {
		t.Errorf("skipped = %d, want 4", got)
	}
	if len(conv.calls) != callsAfterFirst {
		t.Errorf("second run invoked converters %d times, want 0", len(conv.calls)-callsAfterFirst)
	}
	if !strings.Contains(buf.String(), "Artifacts: 0 produced, 4 skipped, 0 failed") {
		t.Errorf("progress output missing summary:\n%s", buf.String())
	}
}

func TestProduceForceRegenerates(t *testing.T) {
	conv := &fakeConverter{}
	m, _, _ := newTestManager(t, conv)
	doc, cfg := sampleDocument(), testGenConfig()

	if _, err := m.Produce(doc, cfg, types.AllFormats()); err != nil {
		t.Fatalf("first Produce: %v", err)
	}
	callsAfterFirst := len(conv.calls)

	cfg.Force = true
	set, err := m.Produce(doc, cfg, types.AllFormats())
	if err != nil {
		t.Fatalf("forced Produce: %v", err)
	}

	if got := set.Count(types.ArtifactProduced); got != 4 {
		t.Errorf("produced = %d, want 4", got)
	}
	if len(conv.calls) != callsAfterFirst*2 {
		t.Errorf("forced run invoked converters %d times, want %d", len(conv.calls)-callsAfterFirst, callsAfterFirst)
	}
}

func TestProduceFailureIsolated(t *testing.T) {
	conv := &fakeConverter{fail: map[types.ArtifactFormat]error{
		types.FormatEPUB: os.ErrPermission,
	}}
	m, _, _ := newTestManager(t, conv)

	set, err := m.Produce(sampleDocument(), testGenConfig(), types.AllFormats())
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}

	if len(set.Artifacts) != 4 {
		t.Fatalf("records = %d, want 4", len(set.Artifacts))
	}
	byFormat := map[types.ArtifactFormat]types.Artifact{}
	for _, a := range set.Artifacts {
		byFormat[a.Format] = a
	}

	if byFormat[types.FormatEPUB].Status != types.ArtifactFailed {
		t.Errorf("epub status = %q, want failed", byFormat[types.FormatEPUB].Status)
	}
	if byFormat[types.FormatEPUB].Diagnostic == "" {
		t.Error("epub record should carry a diagnostic")
	}
	for _, f := range []types.ArtifactFormat{types.FormatMarkdown, types.FormatHTML, types.FormatPDF} {
		if byFormat[f].Status != types.ArtifactProduced {
			t.Errorf("%s status = %q, want produced", f, byFormat[f].Status)
		}
	}
}

func TestProducePDFRequiresHTML(t *testing.T) {
	conv := &fakeConverter{}
	m, _, _ := newTestManager(t, conv)

	set, err := m.Produce(sampleDocument(), testGenConfig(),
		[]types.ArtifactFormat{types.FormatMarkdown, types.FormatPDF})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}

	if len(set.Artifacts) != 2 {
		t.Fatalf("records = %d, want 2", len(set.Artifacts))
	}
	pdf := set.Artifacts[1]
	if pdf.Format != types.FormatPDF || pdf.Status != types.ArtifactFailed {
		t.Fatalf("pdf record = %+v, want failed", pdf)
	}
	if !strings.Contains(pdf.Diagnostic, "html") {
		t.Errorf("diagnostic %q should name the missing html dependency", pdf.Diagnostic)
	}
	for _, c := range conv.calls {
		if c.kind == "pdf" {
			t.Error("pdf converter should not run without the html artifact")
		}
	}
}

func TestProduceCanonicalOrder(t *testing.T) {
	conv := &fakeConverter{}
	m, _, _ := newTestManager(t, conv)

	shuffled := []types.ArtifactFormat{types.FormatPDF, types.FormatMarkdown, types.FormatHTML}
	set, err := m.Produce(sampleDocument(), testGenConfig(), shuffled)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}

	want := []types.ArtifactFormat{types.FormatMarkdown, types.FormatHTML, types.FormatPDF}
	for i, a := range set.Artifacts {
		if a.Format != want[i] {
			t.Errorf("record %d = %s, want %s", i, a.Format, want[i])
		}
	}
}

func TestProduceRejectsInvalidDocument(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeConverter{})

	doc := sampleDocument()
	doc.Chapters = nil

	if _, err := m.Produce(doc, testGenConfig(), types.AllFormats()); err == nil {
		t.Fatal("expected error for document without chapters")
	}
}

func TestResolveTheme(t *testing.T) {
	themesDir := t.TempDir()
	for _, name := range []string{"default.css", "dark.css"} {
		if err := os.WriteFile(filepath.Join(themesDir, name), []byte("body{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := NewManager(Options{ThemesDir: themesDir, Log: log})

	tests := []struct {
		name  string
		theme string
		want  string
	}{
		{"named theme", "dark", filepath.Join(themesDir, "dark.css")},
		{"explicit extension", "dark.css", filepath.Join(themesDir, "dark.css")},
		{"empty falls back to default", "", filepath.Join(themesDir, "default.css")},
		{"missing falls back to default", "sepia", filepath.Join(themesDir, "default.css")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.resolveTheme(tt.theme); got != tt.want {
				t.Errorf("resolveTheme(%q) = %q, want %q", tt.theme, got, tt.want)
			}
		})
	}

	empty := NewManager(Options{ThemesDir: filepath.Join(themesDir, "missing"), Log: log})
	if got := empty.resolveTheme("dark"); got != "" {
		t.Errorf("resolveTheme with no stylesheets = %q, want empty", got)
	}
}
