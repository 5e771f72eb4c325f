// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert invokes the external document converters: pandoc turns
// the Markdown artifact into standalone html and epub, weasyprint renders
// the html artifact to pdf.
package convert

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	binPandoc     = "pandoc"
	binWeasyPrint = "weasyprint"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec. Run returns
// the combined output so failures can carry the tool's diagnostics.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

var defaultExec executor = osExecutor{}

// Converter shells out to pandoc and weasyprint.
type Converter struct {
	exec executor
}

// New returns a Converter using the system executables.
func New() *Converter {
	return &Converter{exec: defaultExec}
}

func newWithExecutor(e executor) *Converter {
	return &Converter{exec: e}
}

// HTML converts a Markdown file to a standalone html file with embedded
// resources, styled by themePath when non-empty.
func (c *Converter) HTML(mdPath, outPath, themePath string) error {
	return c.pandoc(mdPath, outPath, themePath)
}

// EPUB converts a Markdown file to epub, styled by themePath when
// non-empty.
func (c *Converter) EPUB(mdPath, outPath, themePath string) error {
	return c.pandoc(mdPath, outPath, themePath)
}

func (c *Converter) pandoc(inPath, outPath, themePath string) error {
	if _, err := c.exec.LookPath(binPandoc); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", binPandoc, err)
	}
	args := []string{inPath, "-o", outPath, "--standalone", "--embed-resources"}
	if themePath != "" {
		args = append(args, "--css="+themePath)
	}
	args = append(args, "--highlight-style=kate")

	if out, err := c.exec.Run(binPandoc, args...); err != nil {
		return fmt.Errorf("pandoc %s: %w: %s", filepath.Base(outPath), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// PDF renders an html file to pdf. The html must already exist on disk;
// pdf derives from the html artifact, not from the Markdown.
func (c *Converter) PDF(htmlPath, outPath string) error {
	if _, err := c.exec.LookPath(binWeasyPrint); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", binWeasyPrint, err)
	}
	if out, err := c.exec.Run(binWeasyPrint, htmlPath, outPath); err != nil {
		return fmt.Errorf("weasyprint %s: %w: %s", filepath.Base(outPath), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// PandocPath resolves the pandoc binary, for preflight checks.
func (c *Converter) PandocPath() (string, error) {
	return c.exec.LookPath(binPandoc)
}

// WeasyPrintPath resolves the weasyprint binary, for preflight checks.
func (c *Converter) WeasyPrintPath() (string, error) {
	return c.exec.LookPath(binWeasyPrint)
}
