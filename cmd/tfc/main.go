// Command tfc is the CLI entry point for the typeforge toolchain.
//
// Usage:
//
//	tfc <input> [output] [--skip-type-check|-s] [-o <file>]   Compile a file
//	tfc tokens <file> [--json]                                 Print tokens
//	tfc parse  <file> [--json]                                 Print AST as JSON
//	tfc repl                                                   Start interactive REPL
package main

import (
	"fmt"
	"os"
	"strings"

	"typeforge"
	"typeforge/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch {
	case command == "repl":
		cmdRepl()
	case command == "tokens":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		source := readFile(os.Args[2])
		cmdTokens(source, os.Args[2], hasFlag(os.Args[3:], "--json"))
	case command == "parse":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		source := readFile(os.Args[2])
		cmdParse(source, hasFlag(os.Args[3:], "--json"))
	case strings.HasPrefix(command, "-"):
		usage()
		os.Exit(1)
	default:
		cmdCompile(os.Args[1], os.Args[2:])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  tfc <input> [output] [--skip-type-check|-s] [-o <file>]   Compile a file")
	fmt.Fprintln(os.Stderr, "  tfc tokens <file> [--json]                                 Print tokens")
	fmt.Fprintln(os.Stderr, "  tfc parse  <file> [--json]                                 Print AST")
	fmt.Fprintln(os.Stderr, "  tfc repl                                                   Start interactive REPL")
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

// cmdCompile implements the default `tfc <input> [output] [flags]` form.
// tf.yml, if present next to the input, supplies defaults that any explicit
// flag or positional output overrides.
func cmdCompile(input string, rest []string) {
	options := typeforge.Options{}
	outputPath := ""

	manifest, err := config.LoadFromDir(dirOf(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if manifest != nil {
		options.SkipTypeCheck = manifest.SkipTypeCheck
		if manifest.OutDir != "" {
			outputPath = joinOutDir(manifest.OutDir, defaultOutputPath(input))
		}
	}

	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--skip-type-check", "-s":
			options.SkipTypeCheck = true
		case "-o":
			if i+1 >= len(rest) {
				fmt.Fprintln(os.Stderr, "error: -o requires a file argument")
				os.Exit(1)
			}
			i++
			outputPath = rest[i]
		default:
			if !strings.HasPrefix(rest[i], "-") {
				outputPath = rest[i]
			}
		}
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(input)
	}

	source := readFile(input)
	result := typeforge.Compile(source, options)

	if !result.Success {
		fmt.Fprintln(os.Stderr, typeforge.FormatErrors(result.Errors, source))
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, []byte(result.Output), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot write file %s: %v\n", outputPath, err)
		os.Exit(1)
	}
}

// defaultOutputPath swaps a trailing .ts extension for .js; any other
// extension is kept and .js appended alongside it.
func defaultOutputPath(input string) string {
	if strings.HasSuffix(input, ".ts") {
		return strings.TrimSuffix(input, ".ts") + ".js"
	}
	return input + ".js"
}

func dirOf(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}
	return "."
}

func joinOutDir(outDir, path string) string {
	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	return strings.TrimSuffix(outDir, "/") + "/" + base
}
