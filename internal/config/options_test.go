package config

import "testing"

func TestValidateRejectsOutOfRangeOptLevel(t *testing.T) {
	opt := Default()
	opt.OptimizationLevel = 4
	if err := opt.Validate(); err == nil {
		t.Fatal("expected error for optimization level 4")
	}
}

func TestValidateAcceptsBounds(t *testing.T) {
	for _, lvl := range []int{0, 1, 2, 3} {
		opt := Default()
		opt.OptimizationLevel = lvl
		if err := opt.Validate(); err != nil {
			t.Fatalf("level %d should be valid: %s", lvl, err)
		}
	}
}
