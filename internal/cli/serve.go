package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/session"
	"github.com/matzehuels/seatmap/pkg/workspace"
)

const (
	defaultAddr     = "localhost:8090"
	cleanupInterval = time.Minute
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the command that runs the HTTP editor service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editor service",
		Long: `Serve exposes the editor over HTTP so a browser page can drive it. Each
POST /api/sessions opens a floor in its own session; the page sends pointer
events and reads the scene back as SVG. Idle sessions expire.`,
		Example: `  seatmap serve --addr :8090
  curl -X POST localhost:8090/api/sessions -d '{"floor": 2, "roomId": 12}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, ttl)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().DurationVar(&ttl, "session-ttl", session.DefaultTTL, "idle time before a session expires")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, ttl time.Duration) error {
	logger := loggerFromContext(ctx)

	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	sessions := session.NewStore(ttl)
	defer sessions.Close()

	newWS := func(n notice.Notifier) *workspace.Workspace { return c.newWorkspace(e, n) }
	h := NewHandler(newWS, sessions, c.cfg.View.TransitionDuration.Duration, logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Cleanup(); n > 0 {
					logger.Info("expired sessions", "count", n)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printSuccess("Editor service listening on %s", StyleLink.Render("http://"+addr))
	printDetail("Backend: %s", e.client.BaseURL())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
