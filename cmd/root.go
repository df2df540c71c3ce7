package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
)

var rootCmd = &cobra.Command{
	Use:           "classmos",
	Short:         "Gamified language learning engine",
	Long:          "classmos tracks courses, lesson paths, lives, streaks and leaderboards for language classes.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CLASSMOS_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: classmos.yaml in . or $XDG_CONFIG_HOME/classmos)")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(learnerCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(livesCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// openApp builds the dependencies for cmd from its flags.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	configPath, _ := cmd.Flags().GetString("config")
	return app.Open(app.Options{
		ConfigPath: configPath,
		DBPath:     dbPath,
		Version:    version,
	})
}

// withApp runs fn against a freshly opened App and closes it afterwards.
func withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
