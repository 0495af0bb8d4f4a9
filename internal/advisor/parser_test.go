package advisor_test

import (
	"reflect"
	"testing"

	"github.com/webaxs/webaxs/internal/advisor"
)

func TestParseSuggestions_SingleTriple(t *testing.T) {
	t.Parallel()
	input := "Problem: X\nSolution: Y\nEjemplo de Código: Z\n"

	set := advisor.ParseSuggestions(input)

	if len(set.Violations) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set.Violations))
	}
	entry := set.Violations[0]
	if entry.Problem != "X" || entry.Solution != "Y" || entry.CodeExample != "Z" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestParseSuggestions_SpanishTags(t *testing.T) {
	t.Parallel()
	input := "Problema: Imagen sin texto alternativo\n" +
		"Solución: Añadir un atributo alt descriptivo\n" +
		"Ejemplo de Código: <img src=\"logo.png\" alt=\"Logotipo de la empresa\">\n"

	set := advisor.ParseSuggestions(input)

	if len(set.Violations) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set.Violations))
	}
	if set.Violations[0].Problem != "Imagen sin texto alternativo" {
		t.Errorf("unexpected problem: %q", set.Violations[0].Problem)
	}
}

func TestParseSuggestions_MultipleEntriesPreserveOrder(t *testing.T) {
	t.Parallel()
	input := "Problema: primero\nSolución: s1\nEjemplo de Código: c1\n" +
		"Problema: segundo\nSolución: s2\nEjemplo de Código: c2\n"

	set := advisor.ParseSuggestions(input)

	if len(set.Violations) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set.Violations))
	}
	if set.Violations[0].Problem != "primero" || set.Violations[1].Problem != "segundo" {
		t.Errorf("entries out of order: %+v", set.Violations)
	}
}

func TestParseSuggestions_TrailingEntryDiscarded(t *testing.T) {
	t.Parallel()
	input := "Problema: a\nSolución: b\nEjemplo de Código: c\n" +
		"Problema: incompleto\nSolución: sin cierre\n"

	set := advisor.ParseSuggestions(input)

	if len(set.Violations) != 1 {
		t.Fatalf("expected trailing entry to be discarded, got %d entries", len(set.Violations))
	}
	if set.Violations[0].Problem != "a" {
		t.Errorf("unexpected surviving entry: %+v", set.Violations[0])
	}
}

func TestParseSuggestions_ClosingLineWithMissingFields(t *testing.T) {
	t.Parallel()
	// A Code Example line always closes the in-progress entry, even when
	// problem or solution was never seen.
	set := advisor.ParseSuggestions("Ejemplo de Código: <br>\n")

	if len(set.Violations) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set.Violations))
	}
	entry := set.Violations[0]
	if entry.Problem != "" || entry.Solution != "" {
		t.Errorf("expected empty defaults, got %+v", entry)
	}
	if entry.CodeExample != "<br>" {
		t.Errorf("unexpected code example: %q", entry.CodeExample)
	}
}

func TestParseSuggestions_ProblemLineOverwrites(t *testing.T) {
	t.Parallel()
	input := "Problema: viejo\nProblema: nuevo\nSolución: s\nEjemplo de Código: c\n"

	set := advisor.ParseSuggestions(input)

	if len(set.Violations) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set.Violations))
	}
	if set.Violations[0].Problem != "nuevo" {
		t.Errorf("expected later problem line to win, got %q", set.Violations[0].Problem)
	}
}

func TestParseSuggestions_UnknownLinesIgnored(t *testing.T) {
	t.Parallel()
	input := "Estas son mis sugerencias:\n\nProblema: p\nNota: irrelevante\nSolución: s\nEjemplo de Código: c\nGracias.\n"

	set := advisor.ParseSuggestions(input)

	if len(set.Violations) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set.Violations))
	}
}

func TestParseSuggestions_EmptyInput(t *testing.T) {
	t.Parallel()
	set := advisor.ParseSuggestions("")

	if set.Violations == nil {
		t.Fatal("expected non-nil entries slice")
	}
	if len(set.Violations) != 0 {
		t.Errorf("expected 0 entries, got %d", len(set.Violations))
	}
}

func TestParseSuggestions_Deterministic(t *testing.T) {
	t.Parallel()
	input := "Problema: p\nSolución: s\nEjemplo de Código: c\nProblema: huérfano\n"

	first := advisor.ParseSuggestions(input)
	second := advisor.ParseSuggestions(input)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("parser is not deterministic: %+v vs %+v", first, second)
	}
}
