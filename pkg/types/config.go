package types

// EngineKind identifies the completion engine behind a generation run.
type EngineKind string

const (
	EngineOpenAI    EngineKind = "openai"
	EngineOllama    EngineKind = "ollama"
	EngineAnthropic EngineKind = "anthropic"
)

// AIConfig holds shared settings for engines that call a completion API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o", "llama3.2").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Host overrides the API base URL. Used by the Ollama engine
	// (default "http://localhost:11434"); ignored by the others.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// MaxTokens caps the completion length per request (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float32 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retries on rate-limited requests
	// (default 3). Used by the Ollama engine.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`

	// CostPromptPer1K and CostCompletionPer1K price token usage in
	// dollars per thousand tokens. Zero leaves the run summary without
	// a cost estimate.
	CostPromptPer1K     float64 `json:"cost_prompt_per_1k,omitempty" yaml:"cost_prompt_per_1k,omitempty"`
	CostCompletionPer1K float64 `json:"cost_completion_per_1k,omitempty" yaml:"cost_completion_per_1k,omitempty"`
}

// EstimateCost prices a run's token usage against the configured rates.
// It returns false when no rate is configured.
func (c AIConfig) EstimateCost(u TokenUsage) (float64, bool) {
	if c.CostPromptPer1K == 0 && c.CostCompletionPer1K == 0 {
		return 0, false
	}
	cost := float64(u.Prompt)/1000*c.CostPromptPer1K +
		float64(u.Completion)/1000*c.CostCompletionPer1K
	return cost, true
}

// OutputConfig holds artifact output settings.
type OutputConfig struct {
	// Dir is the directory generated artifacts are written to (default "output").
	Dir string `json:"dir" yaml:"dir"`

	// ThemesDir is the directory holding CSS stylesheets (default "themes").
	ThemesDir string `json:"themes_dir" yaml:"themes_dir"`
}

// GenerationConfig describes a single course generation run.
// It is assembled by the CLI from flags and configuration defaults.
type GenerationConfig struct {
	// Topic is the subject the document is about.
	Topic string `json:"topic" yaml:"topic"`

	// Quantity is the number of chapters to generate (minimum 1).
	Quantity int `json:"quantity" yaml:"quantity"`

	// Category shapes the document kind (e.g. "Tip", "Tutorial", "Course").
	Category Category `json:"category" yaml:"category"`

	// ExpertiseLevel is the target audience level: Novice, Intermediate,
	// Advanced or Expert.
	ExpertiseLevel ExpertiseLevel `json:"expertise_level" yaml:"expertise_level"`

	// Engine selects the completion engine: openai, ollama or anthropic.
	Engine EngineKind `json:"engine" yaml:"engine"`

	// Model is the model identifier passed to the engine.
	Model string `json:"model" yaml:"model"`

	// Theme names the stylesheet used for html, epub and pdf artifacts
	// (default "default").
	Theme string `json:"theme" yaml:"theme"`

	// Stream mirrors partial completion text to the progress writer as it
	// arrives. Parsing always operates on the complete response.
	Stream bool `json:"stream" yaml:"stream"`

	// Force regenerates artifacts even when the target files already exist.
	Force bool `json:"force" yaml:"force"`
}

// Config groups all settings for the coursegen CLI.
type Config struct {
	OpenAI    AIConfig     `json:"openai" yaml:"openai"`
	Ollama    AIConfig     `json:"ollama" yaml:"ollama"`
	Anthropic AIConfig     `json:"anthropic" yaml:"anthropic"`
	Output    OutputConfig `json:"output" yaml:"output"`

	// PromptsDir overrides the built-in prompt templates with a directory
	// laid out the same way (empty means use the embedded defaults).
	PromptsDir string `json:"prompts_dir,omitempty" yaml:"prompts_dir,omitempty"`

	// LedgerPath is the sqlite file recording past runs (default
	// "output/runs.db"; empty disables the ledger).
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`

	// TitleRetries is the number of corrective re-prompts allowed when the
	// title block fails to parse (default 2).
	TitleRetries int `json:"title_retries" yaml:"title_retries"`
}
