package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/seuros/gopher-sass/src/buildinfo"
	"github.com/seuros/gopher-sass/src/lsp"
	"github.com/seuros/gopher-sass/src/parser"
	"github.com/seuros/gopher-sass/src/render"
	"github.com/seuros/gopher-sass/src/scss"
	"github.com/seuros/gopher-sass/src/split"
)

// cli holds the process streams so commands can be run from tests.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func main() {
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, getenv: os.Getenv}
	os.Exit(c.run(os.Args[1:]))
}

func (c *cli) run(args []string) int {
	if len(args) < 1 {
		c.printUsage()
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "split":
		err = c.splitCommand(args)
	case "lint":
		err = c.lintCommand(args)
	case "inspect":
		err = c.inspectCommand(args)
	case "lsp":
		err = c.lspCommand(args)
	case "version", "--version", "-v":
		err = c.versionCommand()
	case "help", "--help", "-h":
		c.printUsage()
		return 0
	default:
		fmt.Fprintf(c.stdout, "Unknown command: %s\n", command)
		c.printUsage()
		return 1
	}

	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.Error() != "" {
				fmt.Fprintln(c.stderr, exitErr.Error())
			}
			return exitErr.code
		}
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	return 0
}

func (c *cli) printUsage() {
	w := c.stdout
	fmt.Fprintln(w, "sass-split - split a stylesheet into its static and dynamic parts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sass-split split [flags] [INPUT|-] [OUTPUT]  - Write the static (or dynamic) part")
	fmt.Fprintln(w, "  sass-split lint <file>                       - Check that both parts can be built")
	fmt.Fprintln(w, "  sass-split inspect [--mode m] <file>         - Print the stylesheet tree")
	fmt.Fprintln(w, "  sass-split lsp                               - Start Language Server")
	fmt.Fprintln(w, "  sass-split version                           - Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Split flags:")
	fmt.Fprintln(w, "  -d, --dynamic                  - Output the dynamic part instead of the static one")
	fmt.Fprintln(w, "  -I, --load-path <path>         - Import search path, repeatable (or set SASS_SPLIT_LOAD_PATH)")
	fmt.Fprintln(w, "  --format scss|css|tree         - Output format (default: scss)")
	fmt.Fprintln(w, "  --trace                        - Show a full backtrace on error")
	fmt.Fprintln(w, "  --log-level <level>            - debug|info|warn|error|off (or set SASS_SPLIT_LOG_LEVEL)")
	fmt.Fprintln(w, "  --log-format text|json         - Log line format (default: text)")
	fmt.Fprintln(w, "  --telemetry                    - Export traces and metrics to stderr")
}

func (c *cli) versionCommand() error {
	fmt.Fprintf(c.stdout, "sass-split version %s\n", buildinfo.Version)
	fmt.Fprintf(c.stdout, "User agent: %s\n", buildinfo.UserAgent())
	return nil
}

func (c *cli) lintCommand(args []string) error {
	if len(args) != 1 {
		return usageErrorf(2, "Usage: sass-split lint <file>")
	}

	filename := args[0]
	doc, err := c.parseFile(filename, false)
	if err != nil {
		return err
	}

	imp, err := c.importer(nil)
	if err != nil {
		return err
	}
	for _, mode := range []split.Mode{split.Static, split.Dynamic} {
		if _, err := split.Partition(doc, mode, split.WithImporter(imp)); err != nil {
			return stylesheetError(err, false)
		}
	}

	fmt.Fprintf(c.stdout, "%s: OK\n", filename)
	return nil
}

func (c *cli) inspectCommand(args []string) error {
	fs := newFlagSet("inspect", c.stderr)
	modeFlag := fs.String("mode", "", "Show the static or dynamic part instead of the parsed tree")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErrorf(2, "Usage: sass-split inspect [--mode static|dynamic] <file>")
	}

	filename := fs.Arg(0)
	doc, err := c.parseFile(filename, false)
	if err != nil {
		return err
	}

	if *modeFlag != "" {
		mode, err := split.ParseMode(*modeFlag)
		if err != nil {
			return usageErrorf(2, "%v", err)
		}
		imp, err := c.importer(nil)
		if err != nil {
			return err
		}
		doc, err = split.Partition(doc, mode, split.WithImporter(imp))
		if err != nil {
			return stylesheetError(err, false)
		}
	}

	fmt.Fprintf(c.stdout, "Stylesheet structure for %s:\n", filename)
	fmt.Fprint(c.stdout, render.Tree(doc))
	return nil
}

func (c *cli) lspCommand(args []string) error {
	if len(args) != 0 {
		return usageErrorf(2, "Usage: sass-split lsp")
	}

	imp, err := c.importer(nil)
	if err != nil {
		return err
	}
	level := split.LogLevelWarn
	if v := c.getenv("SASS_SPLIT_LOG_LEVEL"); v != "" {
		level = split.ParseLogLevel(v)
	}
	server, err := lsp.NewServer(c.stdout, imp, split.NewConsoleLogger(level, c.stderr))
	if err != nil {
		return err
	}
	return server.Serve(c.stdin)
}

func (c *cli) parseFile(filename string, trace bool) (*scss.Document, error) {
	content, err := c.readInput(filename)
	if err != nil {
		return nil, err
	}
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(filename, string(content))
	if err != nil {
		return nil, stylesheetError(err, trace)
	}
	return doc, nil
}

func (c *cli) readInput(filename string) ([]byte, error) {
	if filename == "-" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(filename)
}
