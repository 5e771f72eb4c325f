// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"errors"
	"testing"
)

func TestRenderSubstitutesRecognizedVariables(t *testing.T) {
	text := "Write about {{TOPIC}} in {{QUANTITY}} chapters. Topic again: {{TOPIC}}."
	out, warnings, err := Render(text, map[string]string{
		VarTopic:    "linux",
		VarQuantity: "5",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	want := "Write about linux in 5 chapters. Topic again: linux."
	if out != want {
		t.Errorf("Render = %q, want %q", out, want)
	}
}

func TestRenderMissingRecognizedVariableFails(t *testing.T) {
	_, _, err := Render("{{TOPIC}} / {{CONTEXT_NOTE}} / {{CHAPTER_TITLE}}", map[string]string{
		VarTopic: "linux",
	})
	var sub *SubstitutionError
	if !errors.As(err, &sub) {
		t.Fatalf("error = %v, want *SubstitutionError", err)
	}
	if len(sub.Missing) != 2 || sub.Missing[0] != VarChapterTitle || sub.Missing[1] != VarContextNote {
		t.Errorf("Missing = %v, want [%s %s]", sub.Missing, VarChapterTitle, VarContextNote)
	}
}

func TestRenderUnknownPlaceholderSurvives(t *testing.T) {
	out, warnings, err := Render("{{TOPIC}} uses {{WEIRD_VAR}} twice: {{WEIRD_VAR}}", map[string]string{
		VarTopic: "linux",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := "linux uses {{WEIRD_VAR}} twice: {{WEIRD_VAR}}"
	if out != want {
		t.Errorf("Render = %q, want %q", out, want)
	}
	if len(warnings) != 1 || warnings[0] != "WEIRD_VAR" {
		t.Errorf("warnings = %v, want [WEIRD_VAR]", warnings)
	}
}

func TestRenderEmptyValueIsSubstituted(t *testing.T) {
	out, warnings, err := Render("note:{{CONTEXT_NOTE}}.", map[string]string{VarContextNote: ""})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if out != "note:." {
		t.Errorf("Render = %q, want %q", out, "note:.")
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}
