// Package cli implements the command-line interface for reconstruct.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/algdb"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/config"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath     string
	verbose    bool
	methodFlag string

	cfg *config.Config
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Speedsolve reconstruction",
	Long: `reconstruct replays a recorded Rubik's Cube solve and splits it into
method steps (CFOP or Roux), attributing time and moves to each step and
recognizing the OLL, PLL and CMLL cases used.

Solves are read from JSON files and can be saved to a local database for
history and trend reports.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logrus.SetLevel(cfg.LogLevel)
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		if cfg.AlgDir != "" {
			source := algdb.Chain{algdb.Dir(cfg.AlgDir), algdb.Embedded()}
			reconstruct.SetDefaultLibrary(reconstruct.NewLibrary(source, logrus.StandardLogger()))
			logrus.WithField("dir", cfg.AlgDir).Debug("using algorithm overrides")
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.gocube_reconstruct/reconstruct.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&methodFlag, "method", "m", "", "Method: cfop, roux or both (default from RECONSTRUCT_METHOD, else both)")
}

// methods resolves the --method flag against the loaded config.
func methods() ([]reconstruct.Method, error) {
	names := cfg.Methods()
	if methodFlag != "" && methodFlag != "both" {
		names = []string{methodFlag}
	} else if methodFlag == "both" {
		names = []string{"cfop", "roux"}
	}

	out := make([]reconstruct.Method, 0, len(names))
	for _, n := range names {
		m, err := reconstruct.ParseMethod(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func analyzerOptions() []reconstruct.Option {
	opts := []reconstruct.Option{reconstruct.WithLogger(logrus.StandardLogger())}
	if cfg.FirstMoveAdjustMs > 0 {
		opts = append(opts, reconstruct.WithFirstMoveAdjustment(cfg.FirstMoveAdjustMs))
	}
	return opts
}

// openDB opens the database named by --db, RECONSTRUCT_DB or the default path.
func openDB() (*storage.DB, error) {
	path := dbPath
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		def, err := storage.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		path = def
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
