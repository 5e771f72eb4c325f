// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"strconv"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// TitleVars returns the variable set for a titles prompt.
func TitleVars(cfg types.GenerationConfig) map[string]string {
	return map[string]string{
		VarTopic:          cfg.Topic,
		VarQuantity:       strconv.Itoa(cfg.Quantity),
		VarCategory:       string(cfg.Category),
		VarExpertiseLevel: string(cfg.ExpertiseLevel),
		VarContextNote:    cfg.ExpertiseLevel.ContextNote(),
	}
}

// ChapterVars returns the variable set for a content prompt covering spec
// within a run of total chapters.
func ChapterVars(cfg types.GenerationConfig, spec types.ChapterSpec, total int) map[string]string {
	vars := TitleVars(cfg)
	vars[VarChapterTitle] = spec.Title
	vars[VarChapterShortTitle] = spec.ShortTitle
	vars[VarChapterIndex] = strconv.Itoa(spec.Index)
	vars[VarTotalChapters] = strconv.Itoa(total)
	return vars
}

// Builder composes engine prompts from resolved templates. It is the only
// place template text and variable values meet; it performs no I/O beyond
// template resolution and never talks to an engine.
type Builder struct {
	resolver *Resolver
}

// NewBuilder returns a builder over the given resolver.
func NewBuilder(r *Resolver) *Builder {
	return &Builder{resolver: r}
}

// Titles builds the title generation prompt for the run. The second return
// value lists unrecognized placeholders the template carried.
func (b *Builder) Titles(cfg types.GenerationConfig) (string, []string, error) {
	tpl, err := b.resolver.Resolve(cfg.Category, cfg.Engine, cfg.Model, KindTitles)
	if err != nil {
		return "", nil, err
	}
	return Render(tpl.Text, TitleVars(cfg))
}

// Chapter builds the content prompt for one chapter spec out of total.
func (b *Builder) Chapter(cfg types.GenerationConfig, spec types.ChapterSpec, total int) (string, []string, error) {
	tpl, err := b.resolver.Resolve(cfg.Category, cfg.Engine, cfg.Model, KindContent)
	if err != nil {
		return "", nil, err
	}
	return Render(tpl.Text, ChapterVars(cfg, spec, total))
}
