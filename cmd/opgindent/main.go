// Command opgindent is a small CLI driver over the engine: it compiles a
// grammar, drives the scanner one step at a time, computes one line's
// indentation, or exposes both interactively through a REPL. It exists so
// the engine can be exercised and debugged without embedding it in a host
// editor, following the teacher's cmd/funxy in spirit (plain os.Args
// dispatch, no flag-parsing library, panic recovery at main).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/opgindent/opgindent/internal/demolang"
	"github.com/opgindent/opgindent/internal/gramstore"
	"github.com/opgindent/opgindent/internal/langmode"
	"github.com/opgindent/opgindent/internal/opg"
	"github.com/opgindent/opgindent/internal/scanner"
	"github.com/opgindent/opgindent/internal/tokenizer"
	"github.com/opgindent/opgindent/internal/trace"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile":
		runCompile(os.Args[2:])
	case "indent":
		runIndent(os.Args[2:])
	case "scan":
		runScan(os.Args[2:])
	case "repl":
		runRepl(os.Args[2:])
	case "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage:
  opgindent compile <grammar.json>
  opgindent indent <source> --lang <grammar.json|demo> --line N
  opgindent scan <source> --lang <grammar.json|demo> --pos N --dir back|fwd
  opgindent repl --lang <grammar.json|demo>`)
}

// flags is a minimal --key value / --key parser, in the teacher's style of
// hand-rolled os.Args inspection rather than a flag-parsing library.
type flags struct {
	positional []string
	values     map[string]string
}

func parseFlags(args []string) flags {
	f := flags{values: map[string]string{}}
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--") {
			key := strings.TrimPrefix(a, "--")
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				f.values[key] = args[i+1]
				i++
			} else {
				f.values[key] = ""
			}
			continue
		}
		f.positional = append(f.positional, a)
	}
	return f
}

func openGramstore() *gramstore.Store {
	path := os.Getenv("OPGINDENT_CACHE")
	if path == "" {
		return nil
	}
	store, err := gramstore.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: grammar cache disabled: %s\n", err)
		return nil
	}
	return store
}

func requireMode(f flags) *langmode.Mode {
	lang, ok := f.values["lang"]
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: --lang is required")
		os.Exit(1)
	}
	store := openGramstore()
	if store != nil {
		defer store.Close()
	}
	mode, err := loadMode(lang, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading grammar: %s\n", err)
		os.Exit(1)
	}
	return mode
}

func lexSource(lang, source string) []tokenizer.PosToken {
	if lang == "demo" {
		return demolang.Lex(source)
	}
	return genericLex(source)
}

func runCompile(args []string) {
	f := parseFlags(args)
	if len(f.positional) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: opgindent compile <grammar.json>")
		os.Exit(1)
	}
	mode := requireMode(flags{values: map[string]string{"lang": f.positional[0]}})

	fmt.Printf("language: %s (basic indent: %d)\n", mode.Name, mode.Basic)
	fmt.Println("levels:")
	entries := mode.Levels.Entries()
	toks := make([]string, 0, len(entries))
	for t := range entries {
		toks = append(toks, string(t))
	}
	sortStrings(toks)
	for _, t := range toks {
		lvl := entries[opg.Token(t)]
		fmt.Printf("  %-10s left=%s right=%s\n", t, levelStr(lvl.Left), levelStr(lvl.Right))
	}
	for _, d := range mode.Levels.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}

func levelStr(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func runIndent(args []string) {
	f := parseFlags(args)
	if len(f.positional) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: opgindent indent <source> --lang <grammar.json> --line N")
		os.Exit(1)
	}
	lang := requireFlag(f, "lang")
	lineStr := requireFlag(f, "line")
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: --line must be an integer: %s\n", err)
		os.Exit(1)
	}

	src, err := os.ReadFile(f.positional[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source: %s\n", err)
		os.Exit(1)
	}

	mode := requireMode(f)
	tokens := lexSource(lang, string(src))
	buf := tokenizer.NewSliceBuffer(string(src), tokens)
	buf.SetPos(posOfLine(tokens, line))

	sess := trace.NewSession()
	calc := mode.NewCalculator(buf)
	col := calc.IndentLine()
	fmt.Println(col)
	for _, d := range calc.Diagnostics() {
		ev := sess.Trace("indent", buf.Pos(), d.Error())
		fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.Session, ev.Detail)
	}
}

// posOfLine returns the token-slice index of the first token on line. If
// line has no token, it returns the index of the first token on a later
// line, or len(tokens) if there is none (indenting a blank trailing line).
func posOfLine(tokens []tokenizer.PosToken, line int) int {
	for i, t := range tokens {
		if t.Line == line {
			return i
		}
		if t.Line > line {
			return i
		}
	}
	return len(tokens)
}

func runScan(args []string) {
	f := parseFlags(args)
	if len(f.positional) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: opgindent scan <source> --lang <grammar.json> --pos N --dir back|fwd")
		os.Exit(1)
	}
	lang := requireFlag(f, "lang")
	posStr := requireFlag(f, "pos")
	dir := requireFlag(f, "dir")
	pos, err := strconv.Atoi(posStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: --pos must be an integer: %s\n", err)
		os.Exit(1)
	}

	src, err := os.ReadFile(f.positional[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source: %s\n", err)
		os.Exit(1)
	}

	mode := requireMode(f)
	tokens := lexSource(lang, string(src))
	buf := tokenizer.NewSliceBuffer(string(src), tokens)
	buf.SetPos(pos)

	var res scanner.Result
	switch dir {
	case "back":
		res, err = scanner.BackwardSexp(mode.Levels, buf, false)
	case "fwd":
		res, err = scanner.ForwardSexp(mode.Levels, buf, false)
	default:
		fmt.Fprintln(os.Stderr, "Error: --dir must be back or fwd")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan error: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s pos=%d token=%q level=%d\n", res.Kind, res.Pos, res.Token, res.Level)
}

func requireFlag(f flags, name string) string {
	v, ok := f.values[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: --%s is required\n", name)
		os.Exit(1)
	}
	return v
}

// runRepl reads one source file's worth of tokens once, then loops reading
// commands from stdin: "indent N", "scan back|fwd N", or "quit".
func runRepl(args []string) {
	f := parseFlags(args)
	lang := requireFlag(f, "lang")
	mode := requireMode(f)
	sess := trace.NewSession()

	fmt.Fprintf(os.Stderr, "opgindent repl [%s] session=%s (enter source, blank line to finish)\n", mode.Name, sess)
	var sourceLines []string
	scannerIn := bufio.NewScanner(os.Stdin)
	for scannerIn.Scan() {
		line := scannerIn.Text()
		if line == "" {
			break
		}
		sourceLines = append(sourceLines, line)
	}
	source := strings.Join(sourceLines, "\n")
	tokens := lexSource(lang, source)
	buf := tokenizer.NewSliceBuffer(source, tokens)

	fmt.Fprintln(os.Stderr, "commands: indent N | scan back N | scan fwd N | quit")
	for scannerIn.Scan() {
		line := strings.TrimSpace(scannerIn.Text())
		if line == "" || line == "quit" {
			break
		}
		parts := strings.Fields(line)
		switch parts[0] {
		case "indent":
			n, _ := strconv.Atoi(parts[1])
			buf.SetPos(posOfLine(tokens, n))
			calc := mode.NewCalculator(buf)
			fmt.Println(calc.IndentLine())
		case "scan":
			if len(parts) < 3 {
				fmt.Fprintln(os.Stderr, "usage: scan back|fwd N")
				continue
			}
			n, _ := strconv.Atoi(parts[2])
			buf.SetPos(n)
			var (
				res scanner.Result
				err error
			)
			if parts[1] == "back" {
				res, err = scanner.BackwardSexp(mode.Levels, buf, false)
			} else {
				res, err = scanner.ForwardSexp(mode.Levels, buf, false)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %s\n", err)
				continue
			}
			fmt.Printf("%s pos=%d token=%q level=%d\n", res.Kind, res.Pos, res.Token, res.Level)
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", parts[0])
		}
	}
}
