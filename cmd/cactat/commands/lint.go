package commands

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	contactform "github.com/goliatone/go-contactform"
	"github.com/goliatone/go-contactform/pkg/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

func newLintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <openapi>...",
		Short: "Check the x-formgen extensions of OpenAPI documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := contactform.NewLoader(pkgopenapi.WithDefaultSources())
			parser := contactform.NewParser(pkgopenapi.WithPartialDocuments(true))

			var total int
			for _, path := range args {
				doc, err := loader.Load(cmd.Context(), parseSource(path))
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				ops, err := parser.Operations(cmd.Context(), doc)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}

				ids := make([]string, 0, len(ops))
				for id := range ops {
					if a.operation == "" || id == a.operation {
						ids = append(ids, id)
					}
				}
				sort.Strings(ids)
				for _, id := range ids {
					for _, v := range model.Lint(ops[id]) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, v)
						total++
					}
				}
				a.log.WithFields(logrus.Fields{"source": path, "operations": len(ids)}).Debug("linted document")
			}

			if total > 0 {
				return fmt.Errorf("lint: %d unsupported extension(s)", total)
			}
			return nil
		},
	}
	return cmd
}
