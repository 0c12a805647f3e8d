package media

import (
	"errors"
	"testing"
)

type mockCommand struct {
	name   string
	fail   bool
	suffix []byte
}

func (m *mockCommand) Name() string { return m.name }

func (m *mockCommand) Execute(photoData []byte) ([]byte, error) {
	if m.fail {
		return nil, errors.New("mock failure")
	}
	return append(append([]byte(nil), photoData...), m.suffix...), nil
}

func TestCommandRegistry_RegisterAndCreate(t *testing.T) {
	registry := NewCommandRegistry()

	factory := func(params map[string]any) (Command, error) {
		return &mockCommand{name: "MockCommand"}, nil
	}

	if err := registry.Register("MockCommand", factory); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !registry.IsRegistered("MockCommand") {
		t.Fatal("expected MockCommand to be registered")
	}

	cmd, err := registry.Create("MockCommand", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if cmd.Name() != "MockCommand" {
		t.Fatalf("expected command name MockCommand, got %q", cmd.Name())
	}
}

func TestCommandRegistry_RejectsInvalidRegistration(t *testing.T) {
	registry := NewCommandRegistry()

	if err := registry.Register("", func(map[string]any) (Command, error) { return nil, nil }); err == nil {
		t.Fatal("expected error for empty command name")
	}
	if err := registry.Register("NilFactory", nil); err == nil {
		t.Fatal("expected error for nil factory")
	}

	factory := func(params map[string]any) (Command, error) {
		return &mockCommand{name: "Dup"}, nil
	}
	if err := registry.Register("Dup", factory); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := registry.Register("Dup", factory); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestCommandRegistry_CreateUnknown(t *testing.T) {
	registry := NewCommandRegistry()
	if _, err := registry.Create("DoesNotExist", nil); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestDefaultRegistry_HasBuiltinCommands(t *testing.T) {
	for _, name := range []string{"PngConvertCommand", "ScaleCommand"} {
		if !DefaultRegistry.IsRegistered(name) {
			t.Errorf("expected %s to be registered in DefaultRegistry", name)
		}
	}
}

func TestGetIntParam(t *testing.T) {
	params := map[string]any{
		"int":     42,
		"int64":   int64(43),
		"float64": 44.9,
		"string":  "nope",
	}
	if got := GetIntParam(params, "int", 0); got != 42 {
		t.Errorf("int: got %d, want 42", got)
	}
	if got := GetIntParam(params, "int64", 0); got != 43 {
		t.Errorf("int64: got %d, want 43", got)
	}
	if got := GetIntParam(params, "float64", 0); got != 44 {
		t.Errorf("float64: got %d, want 44", got)
	}
	if got := GetIntParam(params, "string", 7); got != 7 {
		t.Errorf("string: got %d, want default 7", got)
	}
	if got := GetIntParam(params, "missing", 9); got != 9 {
		t.Errorf("missing: got %d, want default 9", got)
	}
}

func TestGetStringParam(t *testing.T) {
	params := map[string]any{"s": "value", "n": 5}
	if got := GetStringParam(params, "s", ""); got != "value" {
		t.Errorf("s: got %q, want value", got)
	}
	if got := GetStringParam(params, "n", "fallback"); got != "fallback" {
		t.Errorf("n: got %q, want fallback", got)
	}
}
