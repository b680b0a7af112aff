package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/internal/config"
	"github.com/goliatone/go-contactform/internal/logger"
	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/fixtures"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/uischema"
)

// flag names
const (
	flagEnvFile     = "env-file"
	flagLocale      = "locale"
	flagBannerDelay = "banner-delay"
	flagFixturesDir = "fixtures-dir"
	flagAlias       = "alias"
	flagFormFile    = "form-file"
	flagFormID      = "form"
	flagOpenAPI     = "openapi"
	flagOperation   = "operation"
	flagLogLevel    = "log-level"
)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	cfg       config.Config
	log       *logrus.Logger
	envFile   string
	aliases   []string
	formID    string
	openapi   string
	operation string

	// promptDriver replaces the survey driver; tests script it.
	promptDriver tui.PromptDriver
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cactat",
		Short: "CAC TAT - Central de Atendimento ao Cliente TAT",
		Long: `cactat drives the CAC TAT contact form: fill it from the terminal, serve it
to a browser, render its state as HTML or probe the hosted page.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.preRun,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.envFile, flagEnvFile, ".env", "dotenv file loaded before reading the environment")
	flags.String(flagLocale, "", "locale used for labels and banners (env: CACTAT_LOCALE)")
	flags.Duration(flagBannerDelay, 0, "banner auto-dismiss delay (env: CACTAT_BANNER_DELAY)")
	flags.String(flagFixturesDir, "", "directory attachments are resolved against (env: CACTAT_FIXTURES_DIR)")
	flags.StringArrayVar(&a.aliases, flagAlias, nil, "register a fixture alias as name=path; attach it with @name")
	flags.String(flagFormFile, "", "form definition file replacing the embedded one (env: CACTAT_FORM_FILE)")
	flags.StringVar(&a.formID, flagFormID, uischema.DefaultFormID, "form id to load")
	flags.StringVar(&a.openapi, flagOpenAPI, "", "OpenAPI document path or URL to build the form from")
	flags.StringVar(&a.operation, flagOperation, "", "OpenAPI operation id (with --openapi)")
	flags.String(flagLogLevel, "", "log level (env: LOG_LEVEL)")

	cmd.AddCommand(newFillCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newProbeCmd(a))
	cmd.AddCommand(newLintCmd(a))
	return cmd
}

// preRun resolves the configuration with flag > env > default precedence.
func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed(flagLocale) {
		cfg.Locale, _ = flags.GetString(flagLocale)
	}
	if flags.Changed(flagBannerDelay) {
		cfg.BannerDelay, _ = flags.GetDuration(flagBannerDelay)
	}
	if flags.Changed(flagFixturesDir) {
		cfg.FixturesDir, _ = flags.GetString(flagFixturesDir)
	}
	if flags.Changed(flagFormFile) {
		cfg.FormFile, _ = flags.GetString(flagFormFile)
	}
	if flags.Changed(flagLogLevel) {
		cfg.LogLevel, _ = flags.GetString(flagLogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.openapi != "" && a.operation == "" {
		return fmt.Errorf("--%s requires --%s", flagOpenAPI, flagOperation)
	}

	a.cfg = cfg
	a.log = logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	return nil
}

func (a *app) orchestrator() (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{orchestrator.WithLogger(a.log)}
	if a.cfg.FormFile != "" {
		store, err := uischema.LoadFile(a.cfg.FormFile)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithUISchemaStore(store))
	}
	return orchestrator.New(options...), nil
}

func (a *app) request() orchestrator.Request {
	req := orchestrator.Request{FormID: a.formID}
	if src := parseSource(a.openapi); src != nil {
		req.Source = src
		req.OperationID = a.operation
		if req.FormID == uischema.DefaultFormID {
			req.FormID = ""
		}
	}
	return req
}

// newController resolves the form and builds a controller whose attachments
// resolve against the fixtures directory and the registered aliases.
func (a *app) newController(ctx context.Context) (*controller.Controller, error) {
	orch, err := a.orchestrator()
	if err != nil {
		return nil, err
	}

	loader := fixtures.NewDir(a.cfg.FixturesDir)
	for _, raw := range a.aliases {
		name, path, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("--%s %q: expected name=path", flagAlias, raw)
		}
		if _, err := loader.Alias(strings.TrimSpace(name), strings.TrimSpace(path)); err != nil {
			return nil, err
		}
	}

	ctrl, err := orch.Controller(ctx, a.request(),
		controller.WithLogger(a.log),
		controller.WithBannerDelay(a.cfg.BannerDelay),
		controller.WithResolver(loader),
	)
	if err != nil {
		return nil, err
	}
	ctrl.Subscribe(func(s controller.Snapshot) {
		for _, b := range s.Banners {
			a.log.WithFields(logrus.Fields{"banner": b.Kind, "visible": b.Visible}).Debug("banner state")
		}
	})
	return ctrl, nil
}

func (a *app) renderOptions() render.RenderOptions {
	return render.RenderOptions{
		Locale:     a.cfg.Locale,
		Translator: render.DefaultCatalog(),
	}
}

func parseSource(raw string) pkgopenapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path)
}

func printJSON(out io.Writer, v any) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(prettyJSON))
	return err
}
