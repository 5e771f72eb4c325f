//go:build mage

// Package main contains Mage build targets for coursegen developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories a generation run expects.
var projectDirs = []string{
	"output",
	".secrets",
}

const (
	binDir  = "bin"
	binName = "coursegen"
	cmdPkg  = "./cmd/coursegen"
)

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Check builds the CLI and verifies the conversion toolchain.
func Check() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "check")
}

// Generate builds the CLI and generates a document for topic with the
// configured defaults.
func Generate(topic string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "generate", "--topic", topic)
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints project metrics: Go production/test LOC and prompt
// template word count.
func Stats() error {
	prod, tests, err := countGoLines(".")
	if err != nil {
		return err
	}
	words, err := countTemplateWords(filepath.Join("internal", "prompt", "templates"))
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Words (prompt templates):       %d\n", words)
	return nil
}

// countGoLines walks the tree and counts non-blank lines in Go files,
// split into production and test counts.
func countGoLines(root string) (prod, tests int, err error) {
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if name == binDir || name == "output" || strings.HasPrefix(name, "_") ||
				(strings.HasPrefix(name, ".") && name != ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		count := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				count++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += count
		} else {
			prod += count
		}
		return nil
	})
	return prod, tests, err
}

// countTemplateWords counts words across the prompt template files.
func countTemplateWords(root string) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".txt" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
		return nil
	})
	return total, err
}
