package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appLogger "github.com/FACorreiaa/go-travel-planner/app/logger"
	"github.com/FACorreiaa/go-travel-planner/config"
)

var (
	envFile string
	cfg     config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "travel-planner",
	Short: "Generate day-by-day travel itineraries with map data from a language model",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("loading env file: %w", err)
		} else if err != nil {
			log.Println("Warning: .env file not found or error loading:", err)
		}

		var err error
		cfg, err = config.InitConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		mode := os.Getenv("APP_ENV")
		if mode == "" {
			mode = cfg.Mode
		}
		logger = appLogger.NewLogger(mode, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a dotenv file with credentials")
}

func Execute() error {
	return rootCmd.Execute()
}
