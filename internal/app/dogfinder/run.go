package dogfinder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chzyer/readline"

	dogsdomain "github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	platformobservability "github.com/Apurer/go-dog-finder/internal/platform/observability"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

const serviceName = "dogfinder"

// Run starts the interactive shell on in and out and blocks until the user quits or input ends.
func Run(ctx context.Context, cfg Config, in io.ReadCloser, out io.Writer) error {
	app, closeObs, err := boot(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeObs()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dogfinder> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           in,
		Stdout:          out,
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()
	// Closing the instance unblocks a pending Readline with io.EOF.
	stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
	defer stop()

	// Leaving the shell keeps the server side session; only the logout command ends it.
	return NewShell(app, rl.Stdout()).Run(ctx, rl)
}

// SearchRequest is a one-shot search: log in, apply filters, print up to Pages pages, log out.
type SearchRequest struct {
	Name   string
	Email  string
	Breeds []string
	AgeMin *int
	AgeMax *int
	Sort   string
	Pages  int
}

// RunSearch executes req and prints each page to out.
func RunSearch(ctx context.Context, cfg Config, req SearchRequest, out io.Writer) error {
	app, closeObs, err := boot(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeObs()

	shell := NewShell(app, out)
	if err := runSearch(ctx, shell, req); err != nil {
		return errors.New(apperrors.UserMessage(err))
	}
	return nil
}

func runSearch(ctx context.Context, shell *Shell, req SearchRequest) error {
	app := shell.app
	if _, err := app.Session.Login(ctx, req.Name, req.Email); err != nil {
		return err
	}
	defer func() {
		_ = app.Session.Logout(context.WithoutCancel(ctx))
	}()

	updates := []dogsdomain.FilterOption{
		dogsdomain.WithBreeds(req.Breeds...),
		dogsdomain.WithAgeMin(req.AgeMin),
		dogsdomain.WithAgeMax(req.AgeMax),
	}
	if req.Sort != "" {
		sort, err := dogsdomain.ParseSort(req.Sort)
		if err != nil {
			return apperrors.Validation("search", err.Error())
		}
		updates = append(updates, dogsdomain.WithSort(sort.Field, sort.Direction))
	}
	if err := shell.apply(ctx, updates...); err != nil {
		return err
	}
	for page := 1; page < max(req.Pages, 1); page++ {
		if !app.Search.Snapshot().Cursor.HasNext() {
			break
		}
		if err := shell.run(app.Search.NextPage(ctx)); err != nil {
			return err
		}
	}
	return nil
}

// boot wires observability and the App. Logs go to cfg.LogFile, or stderr when unset, so they never
// interleave with shell output.
func boot(ctx context.Context, cfg Config) (*App, func(), error) {
	var logWriter io.Writer = os.Stderr
	var logFile *os.File
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile, logWriter = f, f
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithWriter(logWriter),
		platformobservability.WithLevel(platformobservability.ParseLevel(cfg.LogLevel)),
	)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	closeAll := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
		if logFile != nil {
			_ = logFile.Close()
		}
	}

	app, err := NewApp(cfg, instruments)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return app, closeAll, nil
}
