package main

import (
	"testing"

	"github.com/sematree/sematree"
)

func TestLoadConfigEnvLLMKey(t *testing.T) {
	t.Setenv("SEMATREE_LLM_KEY", "sk-test-env")

	if err := LoadConfig(); err != nil {
		t.Fatal(err)
	}

	cfg := sematree.GlobalConfig()
	if cfg.LLMKey != "sk-test-env" {
		t.Errorf("LLMKey = %q, want \"sk-test-env\"", cfg.LLMKey)
	}
	if cfg.Dimensions != sematree.DefaultDimensions {
		t.Errorf("Dimensions = %d, want default %d", cfg.Dimensions, sematree.DefaultDimensions)
	}
}
