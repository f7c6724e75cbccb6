// Package config defines the caller-facing compilation Options, modeled on
// util.Options in the teacher repo but scoped to the options §6.1 enumerates.
package config

import "fmt"

// Options controls one compilation job. Matches §6.1 exactly: every field
// named there is present here and nothing else.
type Options struct {
	OptimizationEnabled bool
	OptimizationLevel   int // 0..3, default 2.
	DebugInfoEnabled    bool
	VerboseOutput       bool
	PrintIR             bool
}

// Default returns the Options with spec-mandated defaults.
func Default() Options {
	return Options{
		OptimizationEnabled: false,
		OptimizationLevel:   2,
		DebugInfoEnabled:    false,
		VerboseOutput:       false,
		PrintIR:             false,
	}
}

// Validate rejects an out-of-range optimization level before compilation
// begins, matching §8 scenario 6 (opt-level bounds checked up front).
func (o Options) Validate() error {
	if o.OptimizationLevel < 0 || o.OptimizationLevel > 3 {
		return fmt.Errorf("optimization level must be in range [0, 3], got %d", o.OptimizationLevel)
	}
	return nil
}
