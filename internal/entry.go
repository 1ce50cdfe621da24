// Package internal provides the application wiring and the run modes of the
// command line tool.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/lineview/internal/api"
	"github.com/starford/lineview/internal/document"
	"github.com/starford/lineview/internal/executor"
	"github.com/starford/lineview/internal/history"
	"github.com/starford/lineview/internal/lineview"
	"github.com/starford/lineview/internal/sse"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{
		version: "dev",
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.documentPath != "" {
		app.config.Document.Path = app.documentPath
	}
	if app.config.Document.Path == "" {
		return nil, fmt.Errorf("document path is required")
	}
	return app, nil
}

// newLogger builds the JSON logger. Logs go to App.LogFile when set and to
// fallback otherwise. The returned func closes the log file.
func (a *application) newLogger(fallback io.Writer) (*slog.Logger, func(), error) {
	out, closeFn := fallback, func() {}
	if path := a.config.App.LogFile; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func (a *application) readOptions(logger *slog.Logger) []lineview.Option {
	opts := []lineview.Option{lineview.WithLogger(logger)}
	if n := a.config.Document.MaxDepth; n > 0 {
		opts = append(opts, lineview.WithMaxDepth(n))
	}
	return opts
}

// openDocument loads the root document and, when enabled, the history
// database. The returned func closes the database.
func (a *application) openDocument(logger *slog.Logger, notifiers ...document.Notifier) (*document.Service, func(), error) {
	cfg := a.config
	opts := []document.Option{
		document.WithLogger(logger),
		document.WithReadOptions(a.readOptions(logger)...),
	}
	for _, n := range notifiers {
		opts = append(opts, document.WithNotifier(n))
	}

	closeFn := func() {}
	if cfg.History.Enabled() {
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init history: %w", err)
		}
		opts = append(opts, document.WithHistory(db))
		a.history = db
		closeFn = func() {
			a.history = nil
			_ = db.Close()
		}
	}

	doc, err := document.Open(cfg.Document.Path, executor.NewProcess(logger, ""), opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return doc, closeFn, nil
}

// watch runs the document watcher when enabled and blocks until ctx is done.
func (a *application) watch(ctx context.Context, doc *document.Service) error {
	if !a.config.Document.Watch {
		<-ctx.Done()
		return nil
	}
	return doc.Watch(ctx, a.config.Document.Debounce)
}

// Serve runs the HTTP API with live reload until a shutdown signal arrives
// or ctx is cancelled.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, closeLog, err := app.newLogger(os.Stdout)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("document_path", cfg.Document.Path),
		slog.String("history_path", cfg.History.Path),
		slog.Bool("watch", cfg.Document.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(15 * time.Second)
	defer broker.Close()

	doc, closeDoc, err := app.openDocument(logger, broker)
	if err != nil {
		return err
	}
	defer closeDoc()

	apiRouter := api.NewRouter(doc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	app.healthRoutes(r, doc)

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Reload on source changes; reloads reach clients through the broker.
	g.Go(func() error {
		return app.watch(gCtx, doc)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown stops the errgroup once the server has been shut down, so the
// watcher exits with it.
var errShutdown = errors.New("shutdown")
