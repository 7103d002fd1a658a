// Command newsctl follows live feeds and manages newsroom content from a
// terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"newshub/internal/datasource"
	"newshub/internal/infra/adapter/persistence"
	"newshub/internal/infra/remote"
	"newshub/internal/infra/summarizer"
	"newshub/internal/observability/logging"
	artUC "newshub/internal/usecase/article"
	luUC "newshub/internal/usecase/liveupdate"
)

type options struct {
	API     string `long:"api" env:"NEWSHUB_API_URL" description:"Base URL of a newshub API (reads the local store when empty)"`
	Verbose bool   `short:"v" long:"verbose" description:"Log at debug level"`

	Home     homeCommand     `command:"home" description:"Show the latest articles and live updates together"`
	Watch    watchCommand    `command:"watch" description:"Follow a live feed and mark new updates"`
	Articles articlesCommand `command:"articles" description:"List articles one page at a time"`
	Import   importCommand   `command:"import" description:"Import an RSS or Atom feed"`
	Migrate  migrateCommand  `command:"migrate" description:"Apply or roll back database migrations"`
	Publish  publishCommand  `command:"publish" description:"Write and publish an article"`
}

// app is shared by every command.
type app struct {
	ctx    context.Context
	out    io.Writer
	logger *slog.Logger
	opts   *options
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

// run parses args and executes the selected command. go-flags has already
// printed any error run returns.
func run(ctx context.Context, args []string, out io.Writer) error {
	var opts options
	a := &app{ctx: ctx, out: out, opts: &opts, logger: logging.NewTextLogger()}
	opts.Home.app = a
	opts.Watch.app = a
	opts.Articles.app = a
	opts.Import.app = a
	opts.Migrate.app = a
	opts.Publish.app = a

	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if opts.Verbose {
			a.logger = logging.New(os.Stderr, slog.LevelDebug, true)
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

// services is the local write side used by import and publish.
type services struct {
	stores      *persistence.Stores
	articles    *artUC.Service
	liveUpdates *luUC.Service
}

func (a *app) openServices() (*services, error) {
	stores, err := persistence.Open(a.ctx, false, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	sum, err := summarizer.FromEnv(nil, a.logger)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}
	return &services{
		stores:      stores,
		articles:    artUC.NewService(stores.Articles, sum, a.logger),
		liveUpdates: &luUC.Service{Repo: stores.LiveUpdates, Articles: stores.Articles, Logger: a.logger},
	}, nil
}

func (s *services) close(logger *slog.Logger) {
	if err := s.stores.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}
}

// source returns the remote API when --api is set, otherwise the local store.
func (a *app) source() (datasource.DataSource, func(), error) {
	if a.opts.API != "" {
		client, err := remote.New(remote.DefaultConfig(a.opts.API), a.logger)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
	svc, err := a.openServices()
	if err != nil {
		return nil, nil, err
	}
	return datasource.NewLocal(svc.articles, svc.liveUpdates), func() { svc.close(a.logger) }, nil
}
