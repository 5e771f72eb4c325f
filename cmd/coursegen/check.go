package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maborak/ai-course-generator/internal/artifact"
	"github.com/maborak/ai-course-generator/internal/convert"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the conversion toolchain",
	Long: `Check looks up pandoc and weasyprint on PATH, converts a small probe
document into every derived format, and reports the outcome per format.
Probe files are written to a temporary directory and removed afterwards.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	conv := convert.New()

	tools := []struct {
		name   string
		lookup func() (string, error)
	}{
		{"pandoc", conv.PandocPath},
		{"weasyprint", conv.WeasyPrintPath},
	}
	for _, tool := range tools {
		if path, err := tool.lookup(); err != nil {
			fmt.Printf("%-12s missing (%v)\n", tool.name, err)
		} else {
			fmt.Printf("%-12s %s\n", tool.name, path)
		}
	}

	mgr := artifact.NewManager(artifact.Options{
		Converter: conv,
		OutputDir: cfg.Output.Dir,
		ThemesDir: cfg.Output.ThemesDir,
		Progress:  os.Stderr,
		Log:       log,
	})

	failures := 0
	for _, r := range mgr.Check() {
		if r.OK() {
			fmt.Printf("%-12s ok\n", r.Format)
		} else {
			fmt.Printf("%-12s failed: %v\n", r.Format, r.Err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d format(s) unavailable", failures)
	}
	fmt.Println("\nconversion toolchain ready")
	return nil
}
