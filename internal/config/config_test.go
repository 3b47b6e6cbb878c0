package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Masking.Strategy != StrategyReplace {
		t.Errorf("Default strategy = %q, want replace", cfg.Masking.Strategy)
	}
	if !cfg.Masking.PreserveFormat {
		t.Error("Format preservation should default on")
	}
	if cfg.Masking.MaskCharacter != "█" {
		t.Errorf("Default mask character = %q", cfg.Masking.MaskCharacter)
	}
	if cfg.Masking.ConfidenceThreshold != 0.8 {
		t.Errorf("Default threshold = %v", cfg.Masking.ConfidenceThreshold)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Default port = %d", cfg.Server.Port)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Defaults do not validate: %v", err)
	}
}

func TestValidateMasking(t *testing.T) {
	valid := func() MaskingConfig { return GetDefaults().Masking }

	t.Run("AllStrategiesAccepted", func(t *testing.T) {
		for _, s := range Strategies {
			mc := valid()
			mc.Strategy = s
			if err := ValidateMasking(&mc); err != nil {
				t.Errorf("Strategy %q rejected: %v", s, err)
			}
		}
	})

	t.Run("UnknownStrategy", func(t *testing.T) {
		mc := valid()
		mc.Strategy = "obliterate"
		if err := ValidateMasking(&mc); err == nil {
			t.Error("Unknown strategy accepted")
		}
	})

	t.Run("MaskCharacterMustBeSingleRune", func(t *testing.T) {
		for _, bad := range []string{"", "##", "ab"} {
			mc := valid()
			mc.MaskCharacter = bad
			if err := ValidateMasking(&mc); err == nil {
				t.Errorf("Mask character %q accepted", bad)
			}
		}
		// A multi-byte single rune is fine.
		mc := valid()
		mc.MaskCharacter = "█"
		if err := ValidateMasking(&mc); err != nil {
			t.Errorf("Single multi-byte rune rejected: %v", err)
		}
	})

	t.Run("ThresholdRange", func(t *testing.T) {
		for _, bad := range []float64{-0.1, 1.1} {
			mc := valid()
			mc.ConfidenceThreshold = bad
			if err := ValidateMasking(&mc); err == nil {
				t.Errorf("Threshold %v accepted", bad)
			}
		}
		for _, ok := range []float64{0, 0.5, 1} {
			mc := valid()
			mc.ConfidenceThreshold = ok
			if err := ValidateMasking(&mc); err != nil {
				t.Errorf("Threshold %v rejected: %v", ok, err)
			}
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("BadPort", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Server.Port = 0
		if err := Validate(cfg); err == nil {
			t.Error("Port 0 accepted")
		}
		cfg.Server.Port = 70000
		if err := Validate(cfg); err == nil {
			t.Error("Port 70000 accepted")
		}
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Logging.Level = "verbose"
		if err := Validate(cfg); err == nil {
			t.Error("Unknown log level accepted")
		}
	})

	t.Run("BadLogFormat", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Logging.Format = "xml"
		if err := Validate(cfg); err == nil {
			t.Error("Unknown log format accepted")
		}
	})
}

func TestWriteSample(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		if err := WriteSample(path); err != nil {
			t.Fatalf("WriteSample failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		content := string(data)
		if !strings.Contains(content, "masking:") {
			t.Error("Sample missing masking section")
		}
		if !strings.Contains(content, "strategy: replace") {
			t.Error("Sample missing default strategy")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "config.json")
		if err := WriteSample(path); err != nil {
			t.Fatalf("WriteSample failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if !strings.Contains(string(data), "\"Masking\"") {
			t.Error("Sample JSON missing masking section")
		}
	})
}
