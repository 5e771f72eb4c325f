// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the
// key name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// Key files recognized by the CLI.
const (
	KeyOpenAI    = "openai-api-key"
	KeyAnthropic = "anthropic-api-key"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply copies recognized secrets into cfg. Values already set win, so
// flags, the config file and environment variables all take precedence
// over key files.
func Apply(loaded map[string]string, cfg *types.Config) {
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = loaded[KeyOpenAI]
	}
	if cfg.Anthropic.APIKey == "" {
		cfg.Anthropic.APIKey = loaded[KeyAnthropic]
	}
}
