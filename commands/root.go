package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chunshen/portfolio/internal/config"
	"github.com/chunshen/portfolio/internal/logging"
)

var (
	configPath string
	dataDir    string
	debug      bool

	logger = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:   "portfolio",
		Short: "Personal portfolio site",
		Long: `portfolio serves a personal portfolio: an about page, a scroll-driven
journey timeline, project cards, a résumé and a contact form.

Examples:
  portfolio                               # Serve with defaults and .env
  portfolio serve --config site.yaml      # Serve with a config file
  portfolio journey --data ./data         # Print the merged timeline
  portfolio hash-password                 # Hash a password for ADMIN_PASSWORD_HASH`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "",
		"Data directory, overrides data.dir and DATA_DIR")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")

	rootCmd.AddCommand(serveCmd, journeyCmd, hashPasswordCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	l, err := logging.New(debug)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	return cfg, nil
}

func Execute() error {
	return rootCmd.Execute()
}
