package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/httpapi"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		grace time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact form page and its JSON command API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}

			ctrl, err := a.newController(cmd.Context())
			if err != nil {
				return err
			}
			defer ctrl.Close()

			handler, err := a.handler(ctrl)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errChan := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
			}()
			a.log.WithField("addr", a.cfg.Addr).Info("serve: listening")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errChan:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
			defer cancel()
			a.log.Info("serve: shutting down")
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env: CACTAT_ADDR)")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "shutdown grace period")
	return cmd
}

func (a *app) handler(ctrl *controller.Controller) (http.Handler, error) {
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	return httpapi.NewRouter(ctrl,
		httpapi.WithLogger(a.log),
		httpapi.WithRenderer(renderer),
		httpapi.WithRenderOptions(a.renderOptions()),
	), nil
}
