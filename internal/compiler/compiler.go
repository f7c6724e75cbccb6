// Package compiler wires the Type Registry, Symbol & Resource Environment,
// IR Builder Facade and Code Generation Walker together behind the
// caller-facing API of §6.1. Grounded on src/main.go's run(): read source,
// parse, generate, optionally optimise, optionally persist — but reshaped
// from one function inlining every stage into a library entry point that
// cmd/resoc (and any other caller) can call without touching internal
// packages directly.
package compiler

import (
	"os"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"reso/internal/ast"
	"reso/internal/codegen"
	"reso/internal/config"
	"reso/internal/diag"
	"reso/internal/env"
	"reso/internal/irgen"
	"reso/internal/parser"
	"reso/internal/types"
)

// Source is one named unit of Reso source text, matching §3's Compilation
// Unit record before parsing.
type Source struct {
	Name    string
	Content string
}

// Result is the caller-facing outcome of a compilation job, matching §6.1
// exactly: a success flag, the accumulated diagnostic records, the optional
// textual IR, and — when Options requested an output path — the path
// actually written.
type Result struct {
	Success    bool
	Errors     []diag.Record
	TextualIR  string
	OutputPath string
}

// Options bundles config.Options with the output artifact this job should
// persist, if any. config.Options alone (§6.1) carries no output path, so
// compiler.Options adds the output fields CLI callers need (OutputPath,
// EmitObject, ObjectType) without growing the core Options record itself.
type Options struct {
	config.Options
	OutputPath string
	EmitObject bool
	ObjectType irgen.FileType
}

// DefaultOptions returns Options built from config.Default with no output
// artifact requested.
func DefaultOptions() Options {
	return Options{Options: config.Default()}
}

// Compile runs a full compilation job over sources and returns a Result. It
// never panics on malformed input: syntax and semantic errors are recorded
// and returned, not raised.
func Compile(sources []Source, opts Options) Result {
	if err := opts.Validate(); err != nil {
		return Result{Success: false, Errors: []diag.Record{{
			Severity: diag.SeverityError,
			Kind:     diag.InvalidLiteral,
			Message:  err.Error(),
		}}}
	}

	log := zerolog.Nop()
	if opts.VerboseOutput {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	sink := diag.NewSink(diag.DefaultCeiling)
	units := make([]*ast.CompilationUnit, 0, len(sources))
	for _, src := range sources {
		unit, err := parser.Parse(src.Name, src.Content)
		if err != nil {
			sink.Report(diag.Record{Severity: diag.SeverityError, Kind: diag.SyntaxError, Message: err.Error(), File: src.Name})
			continue
		}
		units = append(units, unit)
	}
	if !sink.Success() {
		return Result{Success: false, Errors: sink.Records()}
	}

	reg := types.NewRegistry()
	environment := env.New()
	ir := irgen.New("reso_module", log)
	defer func() {
		_ = ir.Dispose()
	}()

	w := codegen.New(units, reg, environment, ir, sink, log)
	if err := w.Run(); err != nil {
		sink.Report(diag.Record{Severity: diag.SeverityError, Kind: diag.IrError, Message: err.Error()})
		return Result{Success: false, Errors: sink.Records()}
	}

	if !sink.Success() {
		return Result{Success: false, Errors: sink.Records()}
	}

	if opts.OptimizationEnabled {
		if err := ir.Optimize(opts.OptimizationLevel); err != nil {
			sink.Report(diag.Record{Severity: diag.SeverityError, Kind: diag.IrError, Message: err.Error()})
			return Result{Success: false, Errors: sink.Records()}
		}
	}

	result := Result{Success: true, Errors: sink.Records()}
	if opts.PrintIR || opts.OutputPath == "" || !opts.EmitObject {
		text, err := ir.EmitTextualIR()
		if err != nil {
			sink.Report(diag.Record{Severity: diag.SeverityError, Kind: diag.IrError, Message: err.Error()})
			return Result{Success: false, Errors: sink.Records()}
		}
		result.TextualIR = text
	}

	if opts.OutputPath != "" {
		if opts.EmitObject {
			optLevel := opts.OptimizationLevel
			if !opts.OptimizationEnabled {
				optLevel = 0
			}
			if err := ir.EmitObject(opts.OutputPath, opts.ObjectType, optLevel); err != nil {
				sink.Report(diag.Record{Severity: diag.SeverityError, Kind: diag.IoError, Message: err.Error()})
				return Result{Success: false, Errors: sink.Records()}
			}
		} else {
			if err := os.WriteFile(opts.OutputPath, []byte(result.TextualIR), 0644); err != nil {
				sink.Report(diag.Record{Severity: diag.SeverityError, Kind: diag.IoError, Message: pkgerrors.Wrap(err, "writing textual IR").Error()})
				return Result{Success: false, Errors: sink.Records()}
			}
		}
		result.OutputPath = opts.OutputPath
	}

	return result
}

// CompileStrings is the in-memory convenience form of Compile, keyed by unit
// name, matching §6.1's compile_strings.
func CompileStrings(sources map[string]string, opts Options) Result {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Source, 0, len(sources))
	for _, name := range names {
		list = append(list, Source{Name: name, Content: sources[name]})
	}
	return Compile(list, opts)
}
