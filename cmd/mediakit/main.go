package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yangclinic/mediakit/internal/config"
	"github.com/yangclinic/mediakit/internal/dataset"
	"github.com/yangclinic/mediakit/internal/pipeline"
	"github.com/yangclinic/mediakit/internal/report"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	dataPath   string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "mediakit",
	Short:   "Refresh the clinic's media-kit data file",
	Long:    "mediakit fetches follower counts, ratings, news articles, and TV appearances, and merges them into the persisted data file.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Path to data file (overrides config)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mediakit", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/mediakit/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to adjust search names, outlet tables, and the data file path.")
		return nil
	},
}

// --- update command ---

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the full refresh: followers -> rating -> articles -> appearances -> stats -> save",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		pipe := pipeline.New(cfg, store)

		result, err := pipe.Run(context.Background())
		if err != nil {
			// Only load/save failures land here; stage failures are folded
			// into the step summaries.
			return err
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
			fmt.Printf("  %s\n", step.Summary)
		}

		if result.Changed {
			fmt.Println("\nData updated with new content.")
		} else {
			fmt.Println("\nNo new content found, timestamp updated.")
		}
		return nil
	},
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show data file contents summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		d, err := store.Load()
		if err != nil {
			return err
		}

		fmt.Printf("Data file: %s\n", store.Path())
		if d.LastUpdated != "" {
			fmt.Printf("Last updated: %s\n", d.LastUpdated)
		}
		fmt.Println("\nCollections:")
		fmt.Printf("  TV appearances: %d\n", len(d.TVShows))
		fmt.Printf("  Health media:   %d\n", len(d.HealthMedia))
		fmt.Printf("  News media:     %d\n", len(d.NewsMedia))
		fmt.Println("\nStats:")
		if s := d.Stats[dataset.StatFollowers]; s.Display != "" {
			fmt.Printf("  Followers: %s\n", s.Display)
		}
		if s := d.Stats[dataset.StatRating]; s.Score > 0 {
			fmt.Printf("  Rating: %.1f\n", s.Score)
		}
		if s := d.Stats[dataset.StatMediaExposure]; s.Display != "" {
			fmt.Printf("  Media exposure: %s\n", s.Display)
		}
		return nil
	},
}

// --- report command ---

var (
	reportHTML bool
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a digest of the data file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		d, err := store.Load()
		if err != nil {
			return err
		}

		var out string
		if reportHTML {
			out, err = report.HTML(d)
			if err != nil {
				return err
			}
		} else {
			out = report.Markdown(d)
		}

		if reportOut != "" {
			if err := os.WriteFile(reportOut, []byte(out), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Printf("Wrote report: %s\n", reportOut)
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportHTML, "html", false, "Render HTML instead of Markdown")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write the report to a file")
}

func openStore() *dataset.Store {
	path := dataPath
	if path == "" {
		path = cfg.DataFile
	}
	return dataset.NewStore(path)
}
