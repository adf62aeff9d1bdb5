package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
)

// Layout created by "tally init", relative to the project directory.
const (
	defaultSourceDir = "source_files"
	defaultDestDir   = "dest_files"
	defaultRulesPath = "config/category_mappings.yml"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create the source, destination and rules layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized tally project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing rules file")

	return cmd
}

func runInit(dir string, force bool) error {
	for _, d := range []string{defaultSourceDir, defaultDestDir, filepath.Dir(defaultRulesPath)} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	rulesPath := filepath.Join(dir, defaultRulesPath)
	if _, err := os.Stat(rulesPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", rulesPath)
	}
	if err := os.WriteFile(rulesPath, []byte(config.StarterRules), 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	gitignore := defaultDestDir + "/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, defaultSourceDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	return nil
}
