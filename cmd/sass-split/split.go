package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/seuros/gopher-sass/src/importer"
	"github.com/seuros/gopher-sass/src/render"
	"github.com/seuros/gopher-sass/src/scss"
	"github.com/seuros/gopher-sass/src/split"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, string(os.PathListSeparator)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newFlagSet(name string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return &exitError{code: 0}
		}
		return usageErrorf(2, "%v", err)
	}
	return nil
}

// importer builds a file system importer searching loadPaths first, then
// the entries of SASS_SPLIT_LOAD_PATH.
func (c *cli) importer(loadPaths []string) (*importer.Importer, error) {
	paths := append([]string(nil), loadPaths...)
	if env := c.getenv("SASS_SPLIT_LOAD_PATH"); env != "" {
		paths = append(paths, filepath.SplitList(env)...)
	}
	return importer.OS(paths...)
}

func (c *cli) splitCommand(args []string) error {
	fs := newFlagSet("split", c.stderr)

	var dynamic bool
	fs.BoolVar(&dynamic, "dynamic", false, "Output the dynamic part instead of the static one")
	fs.BoolVar(&dynamic, "d", false, "Shorthand for --dynamic")
	var loadPaths stringList
	fs.Var(&loadPaths, "load-path", "Import search path (repeatable)")
	fs.Var(&loadPaths, "I", "Shorthand for --load-path")
	formatFlag := fs.String("format", "scss", "Output format: scss|css|tree")
	traceFlag := fs.Bool("trace", false, "Show a full backtrace on error")
	logLevelFlag := fs.String("log-level", c.getenv("SASS_SPLIT_LOG_LEVEL"), "Log level: debug|info|warn|error|off (or set SASS_SPLIT_LOG_LEVEL)")
	logFormatFlag := fs.String("log-format", "text", "Log format: text|json")
	telemetryFlag := fs.Bool("telemetry", false, "Export traces and metrics to stderr")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 2 {
		return usageErrorf(2, "Usage: sass-split split [flags] [INPUT|-] [OUTPUT]")
	}

	format := strings.ToLower(*formatFlag)
	switch format {
	case "scss", "css", "tree":
	default:
		return usageErrorf(2, "Unknown --format %q (expected scss|css|tree)", *formatFlag)
	}

	input := "-"
	if fs.NArg() >= 1 {
		input = fs.Arg(0)
	}
	mode := split.Static
	if dynamic {
		mode = split.Dynamic
	}

	imp, err := c.importer(loadPaths)
	if err != nil {
		return err
	}
	opts := []split.Option{split.WithImporter(imp)}
	if *logLevelFlag != "" {
		logger, err := newLogger(*logLevelFlag, *logFormatFlag, c.stderr)
		if err != nil {
			return err
		}
		opts = append(opts, split.WithLogger(logger))
	}

	ctx := context.Background()
	if *telemetryFlag {
		tel, err := newTelemetry(c.stderr)
		if err != nil {
			return err
		}
		defer func() { _ = tel.shutdown(ctx) }()
		opts = append(opts, split.WithObservability(tel.config))
	}

	doc, err := c.parseFile(input, *traceFlag)
	if err != nil {
		return err
	}
	out, err := split.PartitionContext(ctx, doc, mode, opts...)
	if err != nil {
		return stylesheetError(err, *traceFlag)
	}

	text, err := renderAs(format, out)
	if err != nil {
		return stylesheetError(err, *traceFlag)
	}

	if fs.NArg() == 2 {
		return os.WriteFile(fs.Arg(1), []byte(text), 0o644)
	}
	_, err = io.WriteString(c.stdout, text)
	return err
}

func newLogger(level, format string, w io.Writer) (split.Logger, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return split.NewConsoleLogger(split.ParseLogLevel(level), w), nil
	case "json":
		return split.NewJSONLogger(split.ParseLogLevel(level), w), nil
	}
	return nil, usageErrorf(2, "Unknown --log-format %q (expected text|json)", format)
}

func renderAs(format string, doc *scss.Document) (string, error) {
	switch format {
	case "css":
		return render.CSS(doc)
	case "tree":
		return render.Tree(doc), nil
	default:
		return render.SCSS(doc)
	}
}

