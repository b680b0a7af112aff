package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/probe"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		url     string
		expect  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Fetch the hosted page once and check it carries the expected text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("url") {
				url = a.cfg.ProbeURL
			}
			if !cmd.Flags().Changed("expect") {
				expect = a.cfg.ProbeExpect
			}

			p := probe.New(probe.WithTimeout(timeout), probe.WithLogger(a.log))
			result, err := p.Check(cmd.Context(), url, expect)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.OK() {
				return fmt.Errorf("probe: %s answered %d %s, contains %q: %t", result.URL, result.Status, result.Reason, expect, result.ContainsExpected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "page to fetch (env: CACTAT_PROBE_URL)")
	cmd.Flags().StringVar(&expect, "expect", "", "text the body must contain (env: CACTAT_PROBE_EXPECT)")
	cmd.Flags().DurationVar(&timeout, "timeout", probe.DefaultTimeout, "request timeout")
	return cmd
}
