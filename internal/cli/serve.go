package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/wire"
)

const shutdownTimeout = 10 * time.Second

var serveFlags = map[string]cobraflags.Flag{
	"addr": &cobraflags.StringFlag{
		Name:  "addr",
		Value: "",
		Usage: "Listen address (default from server.addr, 127.0.0.1:8000)",
	},
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Run the inventory web application.

The server stops gracefully on SIGINT or SIGTERM. Run 'stockroom migrate'
first on a new database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// --addr is bound to server.addr when the config is loaded.
			cfg := wire.Config()
			if err := requireValid(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if n, err := wire.AuthService().PurgeExpiredSessions(ctx); err == nil && n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired session(s)\n", n)
			}

			e, err := wire.WebServer()
			if err != nil {
				return fmt.Errorf("failed to build server: %w", err)
			}
			e.HideBanner = true

			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(cfg.Server.Addr)
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Serving on http://%s/ (Ctrl+C to stop)\n",
				okMark(), cfg.Server.Addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Server stopped")
			return wire.Close()
		},
	}

	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}
