package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/config"
	"github.com/techvibe/backoffice/internal/container"
	"github.com/techvibe/backoffice/pkg/utils"
)

var version = "dev"

// app carries what PersistentPreRunE resolved for the subcommands
type app struct {
	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "backofficectl",
		Short: "Administer the invoicing back office",
		Long: `backofficectl runs one-shot administration tasks against the back office
database: applying migrations, exporting documents, searching clients and
issuing admin API tokens.

Secrets are read from the environment or a .env file:
  BACKOFFICE_JWT_SECRET - signing key for admin API tokens (required)
  OPENAI_API_KEY        - enables translation
  LARK_APP_ID, LARK_APP_SECRET, LARK_SALES_CHAT_ID - lead alerts`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "configs/config.yaml", "path to the YAML config file (empty for defaults)")
	root.PersistentFlags().StringVar(&a.envFile, "env", config.DefaultEnvFile, "path to a .env file; ignored when missing")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newMigrateCmd(a),
		newExportCmd(a),
		newClientsCmd(a),
		newSequenceCmd(a),
		newTokenCmd(a),
	)

	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadWithEnv(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if !a.verbose {
		a.logger = utils.NewNopLogger()
		return nil
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      "debug",
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// withContainer starts the application without scheduled jobs, runs fn and closes it
func (a *app) withContainer(ctx context.Context, fn func(ctx context.Context, c *container.Container) error) (err error) {
	c, err := container.NewContainer(a.cfg, a.logger, container.WithoutWorkers(), container.WithVersion(version))
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, c)
}
