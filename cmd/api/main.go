package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/yigit/classhub/internal/pkg/logger"
	"github.com/yigit/classhub/internal/server"
)

// @title ClassHub API
// @version 1.0
// @description API for browsing classes and managing enrollments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, as "Bearer <token>"

func main() {
	if err := newApp(serve, migrate).Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

// newApp builds the CLI. --config is accepted both before and after the
// subcommand name.
func newApp(serveAction, migrateAction cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:   "classhub",
		Usage:  "class enrollment API server",
		Flags:  []cli.Flag{configFlag()},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run migrations and start the HTTP server",
				Flags:  []cli.Flag{configFlag()},
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Flags:  []cli.Flag{configFlag()},
				Action: migrateAction,
			},
		},
	}
}

func serve(c *cli.Context) error {
	srv, err := server.NewServer(configPath(c))
	if err != nil {
		return err
	}

	if err := srv.Run(); err != nil {
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func migrate(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Migrate(ctx, configPath(c)); err != nil {
		return err
	}

	logger.Info().Msg("Migrations complete.")
	return nil
}

// configFlag is built per command so each level tracks its own state
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "configs/config.yaml",
		Usage:   "path to the YAML configuration file",
		EnvVars: []string{"CLASSHUB_CONFIG"},
	}
}

// configPath returns the --config value from the innermost context that set
// it. The subcommand's own default would otherwise shadow a global flag.
func configPath(c *cli.Context) string {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet("config") {
			return ctx.String("config")
		}
	}
	return c.String("config")
}
