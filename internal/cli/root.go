package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"claimmap/internal/config"
	"claimmap/internal/source"
	"claimmap/internal/tui"
)

// version is overridden at build time with -ldflags "-X claimmap/internal/cli.version=..."
var version = "dev"

var (
	cfgFile string
	verbose bool

	cfg       config.Config
	logger    *zap.Logger
	configErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimmap [source]",
	Short: "claimmap - terminal map of geotagged claims",
	Long: `claimmap loads a claims CSV from a URL or file and plots it on a terminal map,
as category markers or as a density heatmap.

Claims are filtered by category (the part of ClaimID before the first '-')
and by location type: where the event happened or where the claimant is.

Run without a subcommand to start the interactive viewer.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		var err error
		cfg, err = config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Source = args[0]
		}
		// The viewer owns the terminal, so it logs to a file.
		logger, err = newLogger(cfg.Log, !cmd.HasParent(), verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cfg, logger)
		if err != nil {
			return err
		}
		m := tui.New(tui.Options{
			Context:       cmd.Context(),
			Controller:    ctrl,
			Loader:        newLoader(cfg, logger),
			Source:        cfg.Source,
			Watch:         cfg.Watch,
			WatchInterval: cfg.WatchInterval,
			Log:           logger,
		})
		return tui.Run(m)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "claimmap %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimmap/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.String("base-path", "", "directory or URL prefix for relative sources")
	pf.String("basemap", "", "outline layer (.shp, .geojson, .kml, .wkt)")
	pf.String("category", "", "initial category (empty for all)")
	pf.String("location", "event", "initial location type: event or claimant")
	pf.String("mode", "markers", "initial display mode: markers or heatmap")
	rootCmd.Flags().Bool("watch", false, "reload when a local source file changes")

	// Bind flags to viper
	_ = viper.BindPFlag("base_path", pf.Lookup("base-path"))
	_ = viper.BindPFlag("basemap", pf.Lookup("basemap"))
	_ = viper.BindPFlag("view.category", pf.Lookup("category"))
	_ = viper.BindPFlag("view.location", pf.Lookup("location"))
	_ = viper.BindPFlag("view.mode", pf.Lookup("mode"))
	_ = viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		path, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.SetConfigFile(path)
	}

	// Read in environment variables that match CLAIMMAP_*
	config.BindEnv(viper.GetViper())

	configErr = readConfig(viper.GetViper())
	if configErr == nil && verbose && viper.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// readConfig treats a missing file as "use defaults" and anything else,
// such as unparsable YAML, as an error.
func readConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
}

func newLoader(c config.Config, log *zap.Logger) *source.Loader {
	return source.NewLoader(c.BasePath, c.HTTPTimeout, c.MaxBytes, log)
}
