package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	j "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reoring/adtmatch"
	"github.com/reoring/adtmatch/i18n"
	"github.com/reoring/adtmatch/internal/watch"
	"github.com/reoring/adtmatch/jsonschema"
	"github.com/reoring/adtmatch/source"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		os.Exit(checkCmd(os.Args[2:]))
	case "match":
		os.Exit(matchCmd(os.Args[2:]))
	case "schema":
		os.Exit(schemaCmd(os.Args[2:]))
	case "watch":
		os.Exit(watchCmd(os.Args[2:]))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "adtmatch CLI\n\nUsage:\n  adtmatch check [-format text|json] [-lang en|ja] [-strict] [-redundancy dominance|union] files...\n  adtmatch match -stmt NAME -value value.json files...\n  adtmatch schema -type NAME files...\n  adtmatch watch [-debounce 200ms] files...\n\nNotes:\n  - Declaration files are YAML (multi-document) or JSON, chosen by extension.\n  - Diagnostics are advisory; check exits non-zero only with -strict.")
}

func newLogger(verbose bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func loadProgram(log zerolog.Logger, files []string) (*adtmatch.Program, bool) {
	decls, err := source.LoadFiles(files...)
	if err != nil {
		logIssues(log, "load failed", err)
		return nil, false
	}
	prog, err := decls.Compile()
	if err != nil {
		logIssues(log, "compile failed", err)
		return nil, false
	}
	log.Debug().Int("types", prog.Registry.Len()).Int("statements", len(prog.Statements())).Msg("compiled")
	return prog, true
}

func logIssues(log zerolog.Logger, msg string, err error) {
	if iss, ok := adtmatch.AsIssues(err); ok {
		for _, it := range iss {
			log.Error().Str("code", it.Code).Str("path", it.Path).Str("hint", it.Hint).Msg(it.Message)
		}
		return
	}
	log.Error().Err(err).Msg(msg)
}

func parseRedundancy(s string) (adtmatch.RedundancyMode, bool) {
	switch s {
	case "", "dominance":
		return adtmatch.RedundancyDominance, true
	case "union":
		return adtmatch.RedundancyUnion, true
	}
	return 0, false
}

type statementResult struct {
	Statement  string        `json:"statement"`
	Subject    string        `json:"subject"`
	Exhaustive bool          `json:"exhaustive"`
	Witnesses  []string      `json:"witnesses,omitempty"`
	Redundant  []int         `json:"redundant,omitempty"`
	Issues     []issueResult `json:"issues,omitempty"`
}

type issueResult struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func toResult(r *adtmatch.Report) statementResult {
	out := statementResult{Statement: r.Statement, Subject: r.Subject.Name(), Exhaustive: r.Exhaustive, Redundant: r.Redundant}
	for _, w := range r.Witnesses {
		out.Witnesses = append(out.Witnesses, w.Describe())
	}
	for _, it := range r.Issues() {
		out.Issues = append(out.Issues, issueResult{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint})
	}
	return out
}

func checkCmd(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var format, lang, mode string
	var strict, verbose bool
	fs.StringVar(&format, "format", "text", "output format: text or json")
	fs.StringVar(&lang, "lang", "en", "message language: en or ja")
	fs.BoolVar(&strict, "strict", false, "exit 1 when any statement is not exhaustive or has redundant clauses")
	fs.StringVar(&mode, "redundancy", "dominance", "redundancy rule: dominance or union")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	rm, ok := parseRedundancy(mode)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown redundancy mode %q\n", mode)
		return 2
	}
	i18n.SetLanguage(lang)
	log := newLogger(verbose)

	prog, ok := loadProgram(log, fs.Args())
	if !ok {
		return 1
	}
	prog.Checker.Redundancy = rm
	reports := prog.CheckAll()

	failed := false
	results := make([]statementResult, len(reports))
	for i, r := range reports {
		results[i] = toResult(r)
		failed = failed || !r.OK()
	}
	switch format {
	case "json":
		b, err := j.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("encode")
			return 1
		}
		fmt.Println(string(b))
	default:
		for _, r := range reports {
			fmt.Println(r.String())
			for _, it := range r.Issues() {
				fmt.Printf("  %s at %s: %s", it.Code, it.Path, it.Message)
				if it.Hint != "" {
					fmt.Printf(" (%s)", it.Hint)
				}
				fmt.Println()
			}
		}
	}
	if strict && failed {
		return 1
	}
	return 0
}

func matchCmd(args []string) int {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	var stmt, valuePath string
	var verbose bool
	fs.StringVar(&stmt, "stmt", "", "statement name")
	fs.StringVar(&valuePath, "value", "", "JSON or YAML file holding the subject value")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if stmt == "" || valuePath == "" || fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	log := newLogger(verbose)
	prog, ok := loadProgram(log, fs.Args())
	if !ok {
		return 1
	}
	st, ok := prog.Statement(stmt)
	if !ok {
		log.Error().Str("stmt", stmt).Msg("unknown statement")
		return 1
	}
	data, err := os.ReadFile(valuePath)
	if err != nil {
		log.Error().Err(err).Msg("read value")
		return 1
	}
	var v adtmatch.Value
	if source.FormatOf(valuePath) == source.FormatJSON {
		v, err = source.DecodeValueJSON(prog.Registry, st.Subject, data)
	} else {
		v, err = source.DecodeValueYAML(prog.Registry, st.Subject, data)
	}
	if err != nil {
		logIssues(log, "decode value", err)
		return 1
	}
	i, binds, ok := st.Match(v)
	if !ok {
		fmt.Println("no clause matched")
		return 1
	}
	out := map[string]any{"clause": i, "pattern": st.Clauses[i].Pattern.String()}
	if len(binds) > 0 {
		enc := make(map[string]any, len(binds))
		for name, bv := range binds {
			enc[name] = source.EncodeValue(bv)
		}
		out["bindings"] = enc
	}
	b, err := j.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("encode")
		return 1
	}
	fmt.Println(string(b))
	return 0
}

func schemaCmd(args []string) int {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	var typeName string
	var verbose bool
	fs.StringVar(&typeName, "type", "", "type name to export")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if typeName == "" || fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	log := newLogger(verbose)
	prog, ok := loadProgram(log, fs.Args())
	if !ok {
		return 1
	}
	t, err := prog.Registry.Resolve(typeName)
	if err != nil {
		logIssues(log, "resolve", err)
		return 1
	}
	b, err := j.MarshalIndent(jsonschema.FromType(t), "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("encode")
		return 1
	}
	fmt.Println(string(b))
	return 0
}

func watchCmd(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var delay time.Duration
	var verbose bool
	fs.DurationVar(&delay, "debounce", watch.DefaultDelay, "quiet period before re-checking")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	log := newLogger(verbose)
	r := &watch.Runner{
		Files:  fs.Args(),
		Cache:  watch.NewCache(),
		Logger: log,
		OnResult: func(res watch.Result) {
			fmt.Printf("[%s] %s\n", res.At.Format(time.TimeOnly), strings.ReplaceAll(res.Summary(), "\n", "\n           "))
		},
	}
	w, err := watch.New(r, delay)
	if err != nil {
		log.Error().Err(err).Msg("watch")
		return 1
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Info().Strs("files", r.Files).Dur("debounce", delay).Msg("watching")
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("watch")
		return 1
	}
	return 0
}
