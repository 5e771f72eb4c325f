package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maborak/ai-course-generator/internal/artifact"
	"github.com/maborak/ai-course-generator/internal/convert"
	"github.com/maborak/ai-course-generator/internal/document"
	"github.com/maborak/ai-course-generator/internal/engine"
	"github.com/maborak/ai-course-generator/internal/generate"
	"github.com/maborak/ai-course-generator/internal/ledger"
	"github.com/maborak/ai-course-generator/internal/prompt"
	"github.com/maborak/ai-course-generator/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a course document and its artifacts",
	Long: `Generate plans chapter titles for a topic, generates every chapter in
order with heading validation and corrective retries, then writes the
assembled document as markdown, html, epub and pdf artifacts.

Existing artifact files are left alone unless --force is set.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "subject to generate the document about (required)")
	generateCmd.Flags().Int("quantity", 5, "number of chapters")
	generateCmd.Flags().String("category", "Course", "document kind: Tip, Guide, Tutorial, How-to, Best Practices, Course")
	generateCmd.Flags().String("expertise", "Novice", "target audience: Novice, Intermediate, Advanced, Expert")
	generateCmd.Flags().String("engine", "openai", "completion engine: openai, ollama, anthropic")
	generateCmd.Flags().String("model", "", "model identifier (default: the engine's configured model)")
	generateCmd.Flags().String("theme", "", "stylesheet for html/epub/pdf artifacts (default: default.css)")
	generateCmd.Flags().Bool("stream", false, "mirror completion text to stdout as it arrives")
	generateCmd.Flags().Bool("force", false, "regenerate artifacts even when the files exist")
	generateCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	flags := cmd.Flags()

	topic, _ := flags.GetString("topic")
	quantity, _ := flags.GetInt("quantity")
	categoryStr, _ := flags.GetString("category")
	expertiseStr, _ := flags.GetString("expertise")
	engineStr, _ := flags.GetString("engine")
	model, _ := flags.GetString("model")
	theme, _ := flags.GetString("theme")
	stream, _ := flags.GetBool("stream")
	force, _ := flags.GetBool("force")

	level, err := types.ParseExpertiseLevel(expertiseStr)
	if err != nil {
		return err
	}
	kind := types.EngineKind(engineStr)
	aiCfg, err := engineConfigFor(cfg, kind)
	if err != nil {
		return err
	}
	if model != "" {
		aiCfg.Model = model
	}

	genCfg := types.GenerationConfig{
		Topic:          topic,
		Quantity:       quantity,
		Category:       types.Category(categoryStr),
		ExpertiseLevel: level,
		Engine:         kind,
		Model:          aiCfg.Model,
		Theme:          theme,
		Stream:         stream,
		Force:          force,
	}

	var sink io.Writer
	if stream {
		sink = dimWriter{w: os.Stdout}
	}

	eng, err := engine.New(kind, engine.Options{Config: aiCfg, Sink: sink, Log: log})
	if err != nil {
		return err
	}

	resolver := prompt.NewResolver(log)
	if cfg.PromptsDir != "" {
		resolver = prompt.NewResolverFS(os.DirFS(cfg.PromptsDir), log)
	}
	gen := generate.New(eng, prompt.NewBuilder(resolver), generate.Options{
		TitleRetries: cfg.TitleRetries,
		Progress:     os.Stderr,
		Log:          log,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	doc, err := gen.Run(ctx, genCfg)
	if err != nil {
		recordRun(cfg, genCfg, nil, nil, time.Since(start))
		return err
	}

	mgr := artifact.NewManager(artifact.Options{
		Converter: convert.New(),
		OutputDir: cfg.Output.Dir,
		ThemesDir: cfg.Output.ThemesDir,
		Progress:  os.Stderr,
		Log:       log,
	})
	set, err := mgr.Produce(doc, genCfg, types.AllFormats())
	if err != nil {
		recordRun(cfg, genCfg, doc, nil, time.Since(start))
		return err
	}

	recordRun(cfg, genCfg, doc, set, time.Since(start))
	printSummary(doc, set, aiCfg)

	if set.HasFailures() {
		return fmt.Errorf("%d artifact(s) failed", set.Count(types.ArtifactFailed))
	}
	return nil
}

func engineConfigFor(cfg types.Config, kind types.EngineKind) (types.AIConfig, error) {
	switch kind {
	case types.EngineOpenAI:
		return cfg.OpenAI, nil
	case types.EngineOllama:
		return cfg.Ollama, nil
	case types.EngineAnthropic:
		return cfg.Anthropic, nil
	default:
		return types.AIConfig{}, fmt.Errorf("unknown engine %q (choose from: openai, ollama, anthropic)", kind)
	}
}

// recordRun writes the run to the ledger. Ledger problems are logged,
// never turned into run failures.
func recordRun(cfg types.Config, genCfg types.GenerationConfig, doc *types.Document, set *types.ArtifactSet, elapsed time.Duration) {
	if cfg.LedgerPath == "" {
		return
	}
	run := ledger.Run{
		Topic:     genCfg.Topic,
		Category:  string(genCfg.Category),
		Expertise: string(genCfg.ExpertiseLevel),
		Engine:    string(genCfg.Engine),
		Model:     genCfg.Model,
		Quantity:  genCfg.Quantity,
		Elapsed:   elapsed,
		Status:    ledger.StatusFailed,
	}
	if doc != nil {
		run.PromptTokens = doc.Usage.Prompt
		run.CompletionTokens = doc.Usage.Completion
	}
	if set != nil {
		run.Status = ledger.StatusCompleted
		run.Produced = set.Count(types.ArtifactProduced)
		run.Skipped = set.Count(types.ArtifactSkipped)
		run.Failed = set.Count(types.ArtifactFailed)
	}

	store, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		log.Warnf("ledger unavailable: %v", err)
		return
	}
	defer store.Close()

	// The run context may already be cancelled; the record still matters.
	if _, err := store.Record(context.Background(), run); err != nil {
		log.Warnf("recording run: %v", err)
	}
}

func printSummary(doc *types.Document, set *types.ArtifactSet, aiCfg types.AIConfig) {
	fmt.Printf("\nGenerated %q: %d chapters, %d words, reading time %d min\n",
		doc.Topic, len(doc.Chapters), doc.WordCount(), doc.ReadingTimeMinutes())
	fmt.Printf("Tokens: %d (%d prompt, %d completion)\n",
		doc.Usage.Total(), doc.Usage.Prompt, doc.Usage.Completion)
	if cost, ok := aiCfg.EstimateCost(doc.Usage); ok {
		fmt.Printf("Estimated cost: $%.4f\n", cost)
	}
	fmt.Printf("Elapsed: %s\n", document.FormatElapsed(doc.Elapsed))
	for _, a := range set.Artifacts {
		fmt.Printf("  %-8s %-9s %s\n", a.Format, a.Status, a.Path)
	}
}

// dimWriter renders streamed deltas dim so they stand apart from status
// output on the same terminal.
type dimWriter struct {
	w io.Writer
}

func (d dimWriter) Write(p []byte) (int, error) {
	if _, err := fmt.Fprintf(d.w, "\x1b[2m%s\x1b[0m", p); err != nil {
		return 0, err
	}
	return len(p), nil
}
