package templater

import (
	"errors"
	"strings"
	"testing"
)

func TestPlaceholderSubstitution(t *testing.T) {
	cfg := variantConfig(t, PlaceholderName, "context", map[string]any{"name": "world"})

	res, err := NewPlaceholderTemplater().Process("hello {name}", "test.sql", cfg)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if !res.Rendered || res.Text != "hello world" {
		t.Errorf("got %q (rendered=%v), want \"hello world\"", res.Text, res.Rendered)
	}
	if len(res.Violations) != 0 {
		t.Errorf("placeholder templater emitted %d violations", len(res.Violations))
	}
}

func TestPlaceholderMissingVariable(t *testing.T) {
	cfg := variantConfig(t, PlaceholderName, "context", map[string]any{"name": "world"})

	_, err := NewPlaceholderTemplater().Process("hello {missing}", "test.sql", cfg)
	if err == nil {
		t.Fatal("expected error for unresolved placeholder")
	}
	var terr *TemplatingError
	if !errors.As(err, &terr) {
		t.Fatalf("error should be a *TemplatingError, got %T", err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error %q should name the missing variable", err)
	}
	if !strings.Contains(err.Error(), "configured your variables") {
		t.Errorf("error %q should hint at configuration", err)
	}
}

func TestPlaceholderInferredValues(t *testing.T) {
	cfg := variantConfig(t, PlaceholderName, "context", map[string]any{
		"limit": "3",
		"cols":  `["a", "b"]`,
	})

	res, err := NewPlaceholderTemplater().Process("LIMIT {limit} -- {cols}", "", cfg)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if res.Text != "LIMIT 3 -- [a b]" {
		t.Errorf("got %q", res.Text)
	}
}

func TestPlaceholderBraceEscapes(t *testing.T) {
	res, err := NewPlaceholderTemplater().Process("a {{literal}} b", "", nil)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if res.Text != "a {literal} b" {
		t.Errorf("got %q, want \"a {literal} b\"", res.Text)
	}
}

func TestPlaceholderMalformed(t *testing.T) {
	for _, in := range []string{"select {oops", "select } from x"} {
		_, err := NewPlaceholderTemplater().Process(in, "", nil)
		if err == nil {
			t.Errorf("expected error for malformed input %q", in)
		}
	}
}

func TestPlaceholderOverrides(t *testing.T) {
	cfg := variantConfig(t, PlaceholderName, "context", map[string]any{"n": "3"})

	tmpl := NewPlaceholderTemplater(WithOverrides(map[string]any{"n": "9"}))
	res, err := tmpl.Process("v={n}", "", cfg)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if res.Text != "v=9" {
		t.Errorf("got %q, want the override applied verbatim", res.Text)
	}
}

func TestPlaceholderDefaultContext(t *testing.T) {
	res, err := NewPlaceholderTemplater().Process("{test_value}", "", nil)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if res.Text != "__test__" {
		t.Errorf("got %q, want the built-in default", res.Text)
	}
}
