package templater

import (
	"errors"
	"strings"
	"testing"
)

func TestSelectDefault(t *testing.T) {
	tmpl, err := Select("")
	if err != nil {
		t.Fatalf("Select(\"\") returned error: %v", err)
	}
	if tmpl.Name() != JinjaName {
		t.Errorf("default templater = %q, want %q", tmpl.Name(), JinjaName)
	}
}

func TestSelectByName(t *testing.T) {
	for _, name := range []string{RawName, PlaceholderName, JinjaName} {
		tmpl, err := Select(name)
		if err != nil {
			t.Fatalf("Select(%q) returned error: %v", name, err)
		}
		if tmpl.Name() != name {
			t.Errorf("Select(%q).Name() = %q", name, tmpl.Name())
		}
	}
}

func TestSelectUnknown(t *testing.T) {
	_, err := Select("nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown templater name")
	}
	if !errors.Is(err, ErrUnknownTemplater) {
		t.Errorf("error should wrap ErrUnknownTemplater, got %v", err)
	}
	// The error must enumerate the valid names.
	for _, name := range []string{RawName, PlaceholderName, JinjaName} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should list %q", err, name)
		}
	}
}

func TestRegisterLastWins(t *testing.T) {
	Register("custom", func(opts ...Option) Templater { return NewRawTemplater(opts...) })
	Register("custom", func(opts ...Option) Templater { return NewPlaceholderTemplater(opts...) })

	tmpl, err := Select("custom")
	if err != nil {
		t.Fatalf("Select(custom) returned error: %v", err)
	}
	if tmpl.Name() != PlaceholderName {
		t.Errorf("last registration should win, got variant %q", tmpl.Name())
	}
}

func TestEqualVariant(t *testing.T) {
	a := NewJinjaTemplater()
	b := NewJinjaTemplater(WithOverrides(map[string]any{"x": 1}))
	if !a.EqualVariant(b) {
		t.Error("same variant with different options should be equal")
	}
	if a.EqualVariant(NewRawTemplater()) {
		t.Error("jinja and raw templaters should not be equal")
	}
	if NewRawTemplater().EqualVariant(nil) {
		t.Error("nil should never be equal to a templater")
	}
	if !NewPlaceholderTemplater().EqualVariant(NewPlaceholderTemplater()) {
		t.Error("two placeholder templaters should be equal")
	}
}
