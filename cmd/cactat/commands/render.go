package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/controller"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output   string
		renderer string
		values   map[string]string
		checks   []string
		selects  []string
		attach   string
		submit   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form state as HTML",
		Long: `Render the form after applying --set values, --select and --check options and
an optional --attach reference. With --submit
the form is validated first, so banners and field errors reflect the outcome.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, err := a.newController(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			for name, value := range values {
				ctrl.SetField(name, value)
			}
			for _, raw := range checks {
				group, value, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("--check %q: expected group=value", raw)
				}
				if err := ctrl.Check(group, value); err != nil {
					return err
				}
			}

			for _, raw := range selects {
				group, selector, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("--select %q: expected group=selector", raw)
				}
				if _, err := ctrl.Select(group, controller.ParseSelector(selector)); err != nil {
					return err
				}
			}
			if attach != "" {
				if _, err := ctrl.AttachFile(controller.ParseSource(attach)); err != nil {
					return err
				}
			}

			opts := a.renderOptions()
			if submit {
				opts.Issues = ctrl.Submit().Issues
			}

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			html, err := orch.Render(ctx, renderer, ctrl.Form(), ctrl.Snapshot(), opts)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, html, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(html)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&renderer, "renderer", "", "renderer name (vanilla when empty)")
	cmd.Flags().StringToStringVar(&values, "set", nil, "field values as name=value")
	cmd.Flags().StringArrayVar(&checks, "check", nil, "option to check as group=value")
	cmd.Flags().StringArrayVar(&selects, "select", nil, "option to select as group=value, group=label or group=#index")
	cmd.Flags().StringVar(&attach, "attach", "", "file to attach: a path or @alias")
	cmd.Flags().BoolVar(&submit, "submit", false, "submit before rendering")
	return cmd
}
