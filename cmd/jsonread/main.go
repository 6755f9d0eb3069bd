// Program jsonread parses a JSON file and either prints the parsed value
// tree or the diagnostics collected while trying to.
//
// Usage: jsonread [OPTIONS] FILE
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/juju/loggo"
	"github.com/pborman/getopt"

	"github.com/cobaltgrove/jsonread"
	"github.com/cobaltgrove/jsonread/printer"
)

func main() {
	var (
		debugAST    bool
		allowTrail  bool
		allowScalar bool
		allErrors   bool
		indent      = "  "
		verbose     bool
		help        bool
	)

	getopt.BoolVarLong(&debugAST, "debug-ast", 0, "dump the parsed value tree as Go-syntax-like text instead of JSON")
	getopt.BoolVarLong(&allowTrail, "allow-trailing-comma", 0, "accept a trailing comma before ']' or '}'")
	getopt.BoolVarLong(&allowScalar, "allow-top-level-scalar", 0, "accept a bare scalar as the document root")
	getopt.BoolVarLong(&allErrors, "all-errors", 0, "print every collected diagnostic instead of only the first")
	getopt.StringVarLong(&indent, "indent", 0, "indent unit used when printing the parsed tree", "STR")
	getopt.BoolVarLong(&verbose, "verbose", 'v', "log pipeline milestones to stderr")
	getopt.BoolVarLong(&help, "help", '?', "display help")
	getopt.SetParameters("FILE")

	if err := getopt.Getopt(nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	if help {
		getopt.CommandLine.PrintUsage(os.Stderr)
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.PrintUsage(os.Stderr)
		os.Exit(2)
	}
	path := args[0]

	if verbose {
		loggo.GetLogger("jsonread").SetLogLevel(loggo.DEBUG)
	}

	v, reporter, err := jsonread.ParseFile(path,
		jsonread.WithAllowTrailingComma(allowTrail),
		jsonread.WithAllowTopLevelScalar(allowScalar),
		jsonread.WithThrowAllErrors(allErrors),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if reporter != nil {
		fmt.Fprint(os.Stderr, reporter.RenderDefault())
		os.Exit(1)
	}

	if debugAST {
		repr.Println(v)
		return
	}
	if err := printer.Fprint(os.Stdout, v, indent); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println()
}
