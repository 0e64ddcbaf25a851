package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	var targetDir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default allylab.yaml configuration file",
		Long: `Create an allylab.yaml populated with the current defaults, including an
empty github.token placeholder, so it can be edited manually.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(targetDir, configFileName)

			if _, err := os.Stat(targetPath); err == nil {
				return fmt.Errorf("config file %s already exists", targetPath)
			}

			content, err := yaml.Marshal(seedSettings())
			if err != nil {
				return fmt.Errorf("failed to encode config file: %w", err)
			}

			if err := os.WriteFile(targetPath, content, 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)
			cmd.Printf("Set %s (or %s_GITHUB_TOKEN) before running detect.\n", tokenConfigKey, envPrefix)

			return nil
		},
	}

	cmd.Flags().StringVar(&targetDir, "path", configFolderPath, "directory to write the config file into")

	return cmd
}

// seedSettings returns the current settings with a github.token placeholder
// added, so the generated file shows every key a user is expected to fill in.
func seedSettings() map[string]any {
	seed := viper.AllSettings()

	github, _ := seed["github"].(map[string]any)
	if github == nil {
		github = map[string]any{}
		seed["github"] = github
	}

	if _, ok := github["token"]; !ok {
		github["token"] = ""
	}

	return seed
}

func init() {
	rootCmd.AddCommand(initCmd)
}
