// Command resoc is the thin CLI wrapper around internal/compiler, grounded
// on src/main.go's run()/main() split but generalized to call one library
// entry point instead of inlining every compiler stage, and to parse flags
// with github.com/spf13/pflag instead of the teacher's hand-rolled os.Args
// loop (util/args.go).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"reso/internal/compiler"
	"reso/internal/irgen"
)

// Exit codes per §6.1: 0 success, 1 compilation errors, 2 usage error, 3
// internal error.
const (
	exitSuccess       = 0
	exitCompileError  = 1
	exitUsageError    = 2
	exitInternalError = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("resoc", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: resoc [flags] source...\n")
		flags.PrintDefaults()
	}

	out := flags.StringP("out", "o", "", "output path (object file, or textual IR if --print-ir is given)")
	optLevelFlag := flags.IntP("optimization-level", "O", 2, "optimization level 0..3")
	debugInfo := flags.BoolP("debug-info", "g", false, "enable debug info generation")
	verbose := flags.BoolP("verbose", "v", false, "verbose logging")
	printIR := flags.Bool("print-ir", false, "print textual LLVM IR to stdout")
	emitAsm := flags.Bool("emit-assembly", false, "write textual assembly instead of an object file to --out")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "resoc: %s\n", err)
		return exitUsageError
	}

	sourcePaths := flags.Args()
	if len(sourcePaths) == 0 {
		fmt.Fprintln(os.Stderr, "resoc: at least one source file is required")
		flags.Usage()
		return exitUsageError
	}

	opts := compiler.DefaultOptions()
	opts.OptimizationEnabled = *optLevelFlag > 0
	opts.OptimizationLevel = *optLevelFlag
	opts.DebugInfoEnabled = *debugInfo
	opts.VerboseOutput = *verbose
	opts.PrintIR = *printIR
	opts.OutputPath = *out

	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "resoc: %s\n", err)
		return exitUsageError
	}

	sources := make([]compiler.Source, 0, len(sourcePaths))
	for _, path := range sourcePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resoc: could not read %s: %s\n", path, err)
			return exitUsageError
		}
		sources = append(sources, compiler.Source{Name: path, Content: string(content)})
	}

	if opts.OutputPath != "" && !opts.PrintIR {
		opts.EmitObject = true
		opts.ObjectType = irgen.ObjectFile
		if *emitAsm || strings.HasSuffix(opts.OutputPath, ".s") {
			opts.ObjectType = irgen.AssemblyFile
		}
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "resoc: internal error: %v\n", r)
			os.Exit(exitInternalError)
		}
	}()

	result := compiler.Compile(sources, opts)

	for _, rec := range result.Errors {
		fmt.Fprintf(os.Stderr, "%s: %s:%d:%d: %s\n", rec.Kind, rec.File, rec.Line, rec.Col, rec.Message)
	}

	if !result.Success {
		return exitCompileError
	}

	if opts.PrintIR || (opts.OutputPath == "" && result.TextualIR != "") {
		fmt.Println(result.TextualIR)
	}
	if result.OutputPath != "" && *verbose {
		fmt.Fprintf(os.Stderr, "resoc: wrote %s\n", filepath.Clean(result.OutputPath))
	}
	return exitSuccess
}
