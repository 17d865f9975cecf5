package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
	staticDir  string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envStatic := os.Getenv("STATIC_DIR")

	cmd := &cobra.Command{
		Use:   "live-mcq-service",
		Short: "Synchronized live MCQ sessions over Gorilla WebSocket",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&staticDir, "static-dir", envStatic, "directory of client assets served at / (overrides config)")
	cmd.AddCommand(NewStartCmd(&configPath, &port, &staticDir))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
