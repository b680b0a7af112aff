package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		attempts int
		noAttach bool
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill and submit the contact form from the terminal",
		Long: `Prompt for every field, option group and an optional attachment, then submit.
Failed submissions re-prompt the fields reported by validation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ctrl, err := a.newController(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			driver := a.promptDriver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.OutOrStdout())
			}

			session := tui.NewSession(ctrl, ctrl.Form(),
				tui.WithPromptDriver(driver),
				tui.WithRenderOptions(a.renderOptions()),
				tui.WithAttempts(attempts),
				tui.WithAttachmentPrompt(!noAttach),
				tui.WithLogger(a.log),
			)
			result, err := session.Run(ctx)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				return nil
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&attempts, "attempts", tui.DefaultAttempts, "submissions tried before giving up")
	cmd.Flags().BoolVar(&noAttach, "no-attachment", false, "skip the attachment prompt")
	return cmd
}
