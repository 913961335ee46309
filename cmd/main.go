package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stillhouse/cmd/config"
	migration "stillhouse/cmd/database/migrate"
	"stillhouse/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	configPath string
	memory     bool
	port       string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stillhouse",
	Short: "Distillery inventory and production log API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.SetConfigPath(configPath)
		utils.LoadConfig()

		var err error
		logger, err = utils.NewLogger(utils.GetConfig("ENV"), utils.GetConfig("LOG_LEVEL"))
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}
		return migration.Migrate(db, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	serveCmd.Flags().BoolVar(&memory, "memory", false, "Keep all data in memory instead of PostgreSQL")
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: APP_PORT or 8080)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *gorm.DB
	if !memory {
		var err error
		db, err = config.ConnectDB()
		if err != nil {
			return err
		}
	}

	app, err := config.NewApp(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	if port == "" {
		port = utils.GetConfigOr("APP_PORT", "8080")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("port", port), zap.Bool("memory", memory))
		return app.Fiber.Listen(":" + port)
	})
	g.Go(func() error {
		return app.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		// close streams first so their writers return before the server drains
		app.Sessions.CloseAll()
		return app.Fiber.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
