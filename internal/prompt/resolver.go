// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt resolves prompt templates and builds engine prompts.
//
// Templates are plain text files with {{NAME}} placeholders, laid out as
// <group>/<kind>/<name>.txt where group is "common" or "course" and kind is
// "titles" or "content". Lookup tries a model-specific file first and falls
// back to the capability default. Resolved templates are cached for the
// process lifetime.
package prompt

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/pkg/types"
)

//go:embed templates
var builtinFS embed.FS

var builtin = func() fs.FS {
	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}()

// Kind selects which template of a group to resolve.
type Kind string

const (
	KindTitles  Kind = "titles"
	KindContent Kind = "content"
)

// Template is resolved template text plus the lookup identity that produced
// it.
type Template struct {
	// Text is the raw template body with {{NAME}} placeholders.
	Text string

	// Capability, Model and Kind identify the lookup.
	Capability types.EngineKind
	Model      string
	Kind       Kind

	// Path is the file that satisfied the lookup, relative to the
	// template root.
	Path string
}

// NotFoundError reports a lookup whose whole candidate chain missed.
type NotFoundError struct {
	Capability types.EngineKind
	Model      string
	Kind       Kind

	// Candidates are the paths tried, in lookup order.
	Candidates []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s template for engine %q model %q (tried %s)",
		e.Kind, e.Capability, e.Model, strings.Join(e.Candidates, ", "))
}

// BaseModel reduces a model identifier to the name model-specific templates
// are keyed by: lowercased, with any ":" tag and any first-"." version
// suffix removed ("Llama3.2:70b" becomes "llama3", "gpt-4.1" becomes
// "gpt-4").
func BaseModel(model string) string {
	base := strings.ToLower(strings.TrimSpace(model))
	if i := strings.Index(base, ":"); i >= 0 {
		base = base[:i]
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// DefaultTemplate returns the capability-default template name used when no
// model-specific file exists.
func DefaultTemplate(capability types.EngineKind) string {
	switch capability {
	case types.EngineOllama:
		return "llama"
	case types.EngineAnthropic:
		return "claude"
	default:
		return "openai"
	}
}

// Resolver loads templates from a file system and caches every hit for the
// process lifetime. Construct with NewResolver or NewResolverFS; the zero
// value has no template source.
type Resolver struct {
	fsys fs.FS
	log  *logrus.Logger

	mu    sync.RWMutex
	cache map[cacheKey]*Template
}

type cacheKey struct {
	group      string
	kind       Kind
	capability types.EngineKind
	model      string
}

// NewResolver returns a resolver over the built-in templates.
func NewResolver(log *logrus.Logger) *Resolver {
	return NewResolverFS(builtin, log)
}

// NewResolverFS returns a resolver reading templates from fsys, laid out as
// <group>/<kind>/<name>.txt relative to its root.
func NewResolverFS(fsys fs.FS, log *logrus.Logger) *Resolver {
	return &Resolver{
		fsys:  fsys,
		log:   log,
		cache: make(map[cacheKey]*Template),
	}
}

// Resolve returns the template for the category's group, the kind and the
// engine/model pair. The model-specific file wins; otherwise the capability
// default is used. When both are missing the error is a *NotFoundError
// listing the candidates tried.
func (r *Resolver) Resolve(category types.Category, capability types.EngineKind, model string, kind Kind) (*Template, error) {
	key := cacheKey{
		group:      category.TemplateGroup(),
		kind:       kind,
		capability: capability,
		model:      BaseModel(model),
	}

	r.mu.RLock()
	if tpl, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[key]; ok {
		return tpl, nil
	}

	candidates := []string{
		path.Join(key.group, string(kind), key.model+".txt"),
		path.Join(key.group, string(kind), DefaultTemplate(capability)+".txt"),
	}
	for i, p := range candidates {
		text, err := fs.ReadFile(r.fsys, p)
		if err != nil {
			continue
		}
		if i > 0 {
			r.log.Debugf("no %s template for model %s, falling back to %s", kind, key.model, p)
		} else {
			r.log.Debugf("using %s template %s", kind, p)
		}
		tpl := &Template{
			Text:       string(text),
			Capability: capability,
			Model:      model,
			Kind:       kind,
			Path:       p,
		}
		r.cache[key] = tpl
		return tpl, nil
	}
	return nil, &NotFoundError{
		Capability: capability,
		Model:      model,
		Kind:       kind,
		Candidates: candidates,
	}
}
