package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/lineview/internal/lineview"
	"github.com/starford/lineview/internal/mcpserver"
	"github.com/starford/lineview/internal/tui"
)

// Browse runs the interactive terminal UI until the user quits.
func Browse(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	// The UI owns the terminal.
	logger, closeLog, err := app.newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	notifier := &tui.Notifier{}
	doc, closeDoc, err := app.openDocument(logger, notifier)
	if err != nil {
		return err
	}
	defer closeDoc()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.watch(gCtx, doc)
	})
	g.Go(func() error {
		defer cancel()
		return tui.Run(gCtx, doc, notifier)
	})
	return g.Wait()
}

// Print builds the document once and writes it as plain text.
func Print(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := app.newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	view, err := lineview.Read(app.config.Document.Path, app.readOptions(logger)...)
	if err != nil {
		return err
	}
	if err := tui.Print(app.stdout, view, app.showArgs); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

// ServeMCP serves the document to an MCP client over stdin/stdout until the
// client disconnects or a shutdown signal arrives.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	logger, closeLog, err := app.newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	doc, closeDoc, err := app.openDocument(logger)
	if err != nil {
		return err
	}
	defer closeDoc()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.New(doc, app.version)
	logger.Info("MCP server starting", slog.String("document_path", app.config.Document.Path))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.watch(gCtx, doc)
	})
	g.Go(func() error {
		defer stop()
		errLog := slog.NewLogLogger(logger.Handler(), slog.LevelError)
		if err := srv.Listen(gCtx, app.stdin, app.stdout, errLog); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("mcp: %w", err)
		}
		return nil
	})
	return g.Wait()
}
