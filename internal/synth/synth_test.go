package synth

import (
	"strings"
	"testing"
)

func TestFakeGenerate(t *testing.T) {
	gen := NewFake(42)

	t.Run("EmailShape", func(t *testing.T) {
		value, err := gen.Generate(KindEmail, "en_US")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !strings.Contains(value, "@") {
			t.Errorf("Email %q missing @", value)
		}
	})

	t.Run("SSNNotEmpty", func(t *testing.T) {
		value, err := gen.Generate(KindSSN, "en_US")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if value == "" {
			t.Error("Empty SSN")
		}
	})

	t.Run("AllKindsSupported", func(t *testing.T) {
		kinds := []Kind{KindEmail, KindPhone, KindSSN, KindCreditCard, KindPersonName, KindAddress, KindWord}
		for _, kind := range kinds {
			value, err := gen.Generate(kind, "en_US")
			if err != nil {
				t.Errorf("Kind %q failed: %v", kind, err)
			}
			if value == "" {
				t.Errorf("Kind %q produced an empty value", kind)
			}
		}
	})

	t.Run("UnknownKind", func(t *testing.T) {
		if _, err := gen.Generate(Kind("quantum"), "en_US"); err == nil {
			t.Error("Expected error for unknown kind")
		}
	})

	t.Run("SeededReproducibility", func(t *testing.T) {
		a, err := NewFake(7).Generate(KindEmail, "en_US")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		b, err := NewFake(7).Generate(KindEmail, "en_US")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if a != b {
			t.Errorf("Same seed produced %q and %q", a, b)
		}
	})

	t.Run("LocaleDegradesToDefault", func(t *testing.T) {
		value, err := NewFake(7).Generate(KindEmail, "de_DE")
		if err != nil {
			t.Fatalf("Generate failed for unsupported locale: %v", err)
		}
		if value == "" {
			t.Error("Unsupported locale produced an empty value")
		}
	})
}
