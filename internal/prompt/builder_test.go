// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maborak/ai-course-generator/pkg/types"
)

func testRunConfig() types.GenerationConfig {
	return types.GenerationConfig{
		Topic:          "linux",
		Quantity:       5,
		Category:       types.CategoryTip,
		ExpertiseLevel: types.LevelNovice,
		Engine:         types.EngineOpenAI,
		Model:          "gpt-4o",
	}
}

func TestTitleVarsComplete(t *testing.T) {
	vars := TitleVars(testRunConfig())
	assert.Equal(t, "linux", vars[VarTopic])
	assert.Equal(t, "5", vars[VarQuantity])
	assert.Equal(t, "Tip", vars[VarCategory])
	assert.Equal(t, "Novice", vars[VarExpertiseLevel])
	assert.Equal(t, types.LevelNovice.ContextNote(), vars[VarContextNote])
}

func TestChapterVarsAddChapterFields(t *testing.T) {
	spec := types.ChapterSpec{Index: 2, Title: "Working with Pipes", ShortTitle: "Pipes"}
	vars := ChapterVars(testRunConfig(), spec, 5)
	assert.Equal(t, "Working with Pipes", vars[VarChapterTitle])
	assert.Equal(t, "Pipes", vars[VarChapterShortTitle])
	assert.Equal(t, "2", vars[VarChapterIndex])
	assert.Equal(t, "5", vars[VarTotalChapters])
	assert.Equal(t, "linux", vars[VarTopic], "title vars carry over")
}

func TestBuilderTitles(t *testing.T) {
	fsys := fstest.MapFS{
		"common/titles/openai.txt": {Data: []byte("plan {{QUANTITY}} chapters on {{TOPIC}}")},
	}
	b := NewBuilder(NewResolverFS(fsys, testLogger()))

	out, warnings, err := b.Titles(testRunConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "plan 5 chapters on linux", out)
}

func TestBuilderTitlesRejectsChapterOnlyVariable(t *testing.T) {
	fsys := fstest.MapFS{
		"common/titles/openai.txt": {Data: []byte("{{TOPIC}} {{CHAPTER_TITLE}}")},
	}
	b := NewBuilder(NewResolverFS(fsys, testLogger()))

	_, _, err := b.Titles(testRunConfig())
	var sub *SubstitutionError
	require.ErrorAs(t, err, &sub)
	assert.Equal(t, []string{VarChapterTitle}, sub.Missing)
}

func TestBuilderChapter(t *testing.T) {
	fsys := fstest.MapFS{
		"common/content/openai.txt": {Data: []byte("ch {{CHAPTER_INDEX}}/{{TOTAL_CHAPTERS}}: {{CHAPTER_TITLE}} ({{CHAPTER_SHORT_TITLE}})")},
	}
	b := NewBuilder(NewResolverFS(fsys, testLogger()))

	spec := types.ChapterSpec{Index: 2, Title: "Pipes", ShortTitle: "Pipes"}
	out, warnings, err := b.Chapter(testRunConfig(), spec, 5)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "ch 2/5: Pipes (Pipes)", out)
}
