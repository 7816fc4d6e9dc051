package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

const usage = `Usage: %s <command> [flags]

Commands:
  compose   compose an application step by step and save it as a draft
  fill      answer one step of a draft in the terminal
  html      render one step of a draft as HTML
  openapi   print the submission OpenAPI document of a draft
  serve     serve drafts, a sample listing, and /metrics over HTTP
  drafts    list saved drafts
`

var errUsage = errors.New("formbuilder: usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, nil)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]))
		os.Exit(2)
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type command func(ctx context.Context, env *env, args []string) error

var commands = map[string]struct {
	run   command
	flags func(fs *pflag.FlagSet)
}{
	"compose": {run: runCompose, flags: composeFlags},
	"fill":    {run: runFill, flags: fillFlags},
	"html":    {run: runHTML, flags: htmlFlags},
	"openapi": {run: runOpenAPI, flags: openAPIFlags},
	"serve":   {run: runServe, flags: serveFlags},
	"drafts":  {run: runDrafts},
}

// env carries what every command needs once flags and configuration are
// resolved.
type env struct {
	cfg    config.Config
	flags  *pflag.FlagSet
	locale locale.Locale
	log    logger.Logger
	out    io.Writer
	driver tui.PromptDriver
	drafts store.DraftStore
}

// run dispatches args to a command. A nil driver prompts on the terminal.
func run(ctx context.Context, args []string, out io.Writer, driver tui.PromptDriver) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	log := logger.New(cfg.General.LogLevel)

	drafts, err := openDrafts(cfg, log)
	if err != nil {
		return err
	}
	if driver == nil {
		driver = tui.NewSurveyDriver(out)
	}

	e := &env{
		cfg:    cfg,
		flags:  fs,
		locale: locale.Parse(cfg.General.Locale),
		log:    log,
		out:    out,
		driver: driver,
		drafts: drafts,
	}
	return cmd.run(ctx, e, fs.Args())
}

func openDrafts(cfg config.Config, log logger.Logger) (store.DraftStore, error) {
	switch cfg.Drafts.Backend {
	case config.BackendSQLite, config.BackendPostgres:
		open := store.OpenSQLite
		if cfg.Drafts.Backend == config.BackendPostgres {
			open = store.OpenPostgres
		}
		db, err := open(cfg.Drafts.DSN)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db, store.WithLogger(log))
	default:
		return store.NewFileStore(cfg.Drafts.Dir, store.WithLogger(log))
	}
}

func runDrafts(ctx context.Context, e *env, _ []string) error {
	list, err := e.drafts.List(ctx)
	if err != nil {
		return err
	}
	for _, summary := range list {
		name := locale.Name{En: summary.NameEn, Ar: summary.NameAr}.Display(e.locale)
		fmt.Fprintf(e.out, "%s\t%s\t%d steps\t%s\n", summary.ID, name, summary.Steps, summary.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func stringFlag(fs *pflag.FlagSet, name string) string {
	value, _ := fs.GetString(name)
	return value
}

func boolFlag(fs *pflag.FlagSet, name string) bool {
	value, _ := fs.GetBool(name)
	return value
}
