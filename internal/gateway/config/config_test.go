package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWeights_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	data := "blocked_bonus: 50\nmax_risk_items: 5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("load weights: %v", err)
	}
	if w.BlockedBonus != 50 {
		t.Fatalf("blocked bonus = %v, want 50", w.BlockedBonus)
	}
	if w.MaxRiskItems != 5 {
		t.Fatalf("max risk items = %v, want 5", w.MaxRiskItems)
	}
	// Untouched fields keep the defaults.
	if w.DegreeWeight != 15 {
		t.Fatalf("degree weight = %v, want default 15", w.DegreeWeight)
	}
}

func TestLoadWeights_MissingFile(t *testing.T) {
	if _, err := LoadWeights(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error for a missing weights file")
	}
}

func TestLoadWeights_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWeights(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}
