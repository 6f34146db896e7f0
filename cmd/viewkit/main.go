// viewkit renders a template file with variables from YAML or JSON files and
// the command line, optionally wrapping it in a layout.
//
//	viewkit --base templates --vars site.yaml --set title=Home --layout layout.tpl page.tpl
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-viewkit/internal/prompt"
	"github.com/goliatone/go-viewkit/pkg/meta"
	"github.com/goliatone/go-viewkit/pkg/vars"
	"github.com/goliatone/go-viewkit/pkg/view"
)

// metaVariable is the variable that receives the --meta configuration.
const metaVariable = "metatags"

var errUsage = errors.New("usage: viewkit [flags] TEMPLATE")

type options struct {
	base     string
	layout   string
	varFiles []string
	sets     []string
	metaFile string
	required []string
	prompt   bool
	output   string
	force    bool
	xhtml    bool
	maxDepth int
	verbose  bool
	template string
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, prompt.NewSurveyDriver()); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := buildStore(opts)
	if err != nil {
		return err
	}

	if opts.prompt {
		if err := prompt.Collect(ctx, driver, store, opts.required); err != nil {
			return err
		}
	} else if missing := prompt.Missing(store, opts.required); len(missing) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missing, ", "))
	}

	page := view.New(opts.template,
		view.WithBasePath(opts.base),
		view.WithStore(store),
		view.WithLogger(logger),
		view.WithMaxDepth(opts.maxDepth),
		view.WithXHTML(opts.xhtml),
	)
	if opts.layout != "" {
		page.SetLayout(opts.layout)
	}

	html, err := page.Render(ctx)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := io.WriteString(stdout, html)
		return err
	}
	return writeOutput(ctx, opts, html, driver, logger)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	flags := pflag.NewFlagSet("viewkit", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.base, "base", "b", "", "directory templates, layouts and partials are resolved against")
	flags.StringVarP(&opts.layout, "layout", "l", "", "layout template wrapping the rendered output")
	flags.StringSliceVar(&opts.varFiles, "vars", nil, "YAML or JSON file of variables (repeatable, later files win)")
	flags.StringArrayVar(&opts.sets, "set", nil, "set a variable as name=value (repeatable)")
	flags.StringVar(&opts.metaFile, "meta", "", "meta tag configuration exposed as the \""+metaVariable+"\" variable")
	flags.StringSliceVar(&opts.required, "require", nil, "variables that must be set before rendering")
	flags.BoolVar(&opts.prompt, "prompt", false, "ask for missing required variables interactively")
	flags.StringVarP(&opts.output, "output", "o", "", "write output to this file atomically (stdout if empty)")
	flags.BoolVar(&opts.force, "force", false, "overwrite an existing output file without asking")
	flags.BoolVar(&opts.xhtml, "xhtml", false, "emit self-closing meta tags")
	flags.IntVar(&opts.maxDepth, "max-depth", view.DefaultMaxDepth, "maximum nesting of layouts and partials")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log render steps to stderr")

	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	if flags.NArg() != 1 {
		return opts, errUsage
	}
	opts.template = flags.Arg(0)
	return opts, nil
}

func buildStore(opts options) (*vars.Store, error) {
	store := vars.New()
	for _, path := range opts.varFiles {
		loaded, err := vars.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := store.Assign(loaded); err != nil {
			return nil, fmt.Errorf("vars %s: %w", path, err)
		}
	}

	if opts.metaFile != "" {
		config, err := meta.LoadFile(opts.metaFile)
		if err != nil {
			return nil, err
		}
		store.Set(metaVariable, config)
	}

	for _, assignment := range opts.sets {
		name, value, ok := strings.Cut(assignment, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--set %q: expected name=value", assignment)
		}
		store.Set(name, value)
	}
	return store, nil
}

func writeOutput(ctx context.Context, opts options, html string, driver prompt.Driver, logger *slog.Logger) error {
	if _, err := os.Stat(opts.output); err == nil && !opts.force {
		if !opts.prompt {
			return fmt.Errorf("%s exists, use --force to overwrite", opts.output)
		}
		ok, err := driver.Confirm(ctx, prompt.ConfirmConfig{
			Message: fmt.Sprintf("Overwrite %s?", opts.output),
		})
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrAborted
		}
	}

	if err := atomic.WriteFile(opts.output, strings.NewReader(html)); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	logger.Info("viewkit: wrote output", "path", opts.output, "bytes", len(html))
	return nil
}
