package codec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("JSON", func(t *testing.T) {
		path := writeFile(t, dir, "in.json", `{"email":"a@b.com","nested":{"n":1},"list":["x"]}`)
		value, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		m, ok := value.(map[string]any)
		if !ok {
			t.Fatalf("Expected map, got %T", value)
		}
		if m["email"] != "a@b.com" {
			t.Errorf("email = %v", m["email"])
		}
		if _, ok := m["nested"].(map[string]any); !ok {
			t.Errorf("nested is %T, want map[string]any", m["nested"])
		}
		if _, ok := m["list"].([]any); !ok {
			t.Errorf("list is %T, want []any", m["list"])
		}
	})

	t.Run("YAML", func(t *testing.T) {
		path := writeFile(t, dir, "in.yaml", "email: a@b.com\nitems:\n  - one\n  - two\n")
		value, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		m, ok := value.(map[string]any)
		if !ok {
			t.Fatalf("Expected map, got %T", value)
		}
		items, ok := m["items"].([]any)
		if !ok || len(items) != 2 {
			t.Errorf("items = %v (%T)", m["items"], m["items"])
		}
	})

	t.Run("PlainText", func(t *testing.T) {
		path := writeFile(t, dir, "in.txt", "just some text with a@b.com")
		value, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		s, ok := value.(string)
		if !ok {
			t.Fatalf("Expected string, got %T", value)
		}
		if !strings.Contains(s, "a@b.com") {
			t.Errorf("Text content lost: %q", s)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"broken":`)
		if _, err := Load(path); err == nil {
			t.Fatal("Expected error for invalid JSON")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
			t.Fatal("Expected error for missing file")
		}
	})
}

func TestDump(t *testing.T) {
	dir := t.TempDir()

	t.Run("JSONRoundTrip", func(t *testing.T) {
		path := filepath.Join(dir, "out.json")
		in := map[string]any{"email": "█@b.com", "count": 2}
		if err := Dump(path, in); err != nil {
			t.Fatalf("Dump failed: %v", err)
		}
		back, err := Load(path)
		if err != nil {
			t.Fatalf("Load of dumped file failed: %v", err)
		}
		m := back.(map[string]any)
		if m["email"] != "█@b.com" {
			t.Errorf("email = %v", m["email"])
		}
	})

	t.Run("YAMLRoundTrip", func(t *testing.T) {
		path := filepath.Join(dir, "out.yaml")
		in := map[string]any{"items": []any{"a", "b"}}
		if err := Dump(path, in); err != nil {
			t.Fatalf("Dump failed: %v", err)
		}
		back, err := Load(path)
		if err != nil {
			t.Fatalf("Load of dumped file failed: %v", err)
		}
		items := back.(map[string]any)["items"].([]any)
		if len(items) != 2 || items[0] != "a" {
			t.Errorf("items = %v", items)
		}
	})

	t.Run("TextVerbatim", func(t *testing.T) {
		path := filepath.Join(dir, "out.txt")
		if err := Dump(path, "masked ███ text"); err != nil {
			t.Fatalf("Dump failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(data) != "masked ███ text" {
			t.Errorf("Text content = %q", string(data))
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("NonStringKeys", func(t *testing.T) {
		in := map[any]any{1: "one", "two": map[any]any{true: "t"}}
		out, ok := normalize(in).(map[string]any)
		if !ok {
			t.Fatalf("Expected map[string]any, got %T", normalize(in))
		}
		if out["1"] != "one" {
			t.Errorf("Key 1 = %v", out["1"])
		}
		inner, ok := out["two"].(map[string]any)
		if !ok {
			t.Fatalf("Nested map not normalized: %T", out["two"])
		}
		if inner["true"] != "t" {
			t.Errorf("Nested key = %v", inner["true"])
		}
	})
}
