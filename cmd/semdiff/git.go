package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/semdiff/pkg/git"
)

var gitCmd = &cobra.Command{
	Use:   "git",
	Short: "Manage semdiff's git integration",
}

var gitInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install semdiff as a git difftool and diff driver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := git.Install(); err != nil {
			return fmt.Errorf("installing git integration: %w", err)
		}
		fmt.Println("Successfully installed semdiff as git difftool.")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  git difftool -t semdiff HEAD~1 -- file.json")
		fmt.Println("  git difftool -t semdiff branch1 branch2 -- config.yaml")
		fmt.Println()
		fmt.Println("To use automatically for specific files, add to .gitattributes:")
		fmt.Println("  *.json diff=semdiff")
		fmt.Println("  *.yaml diff=semdiff")
		fmt.Println("  *.toml diff=semdiff")
		return nil
	},
}

var gitUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove semdiff from the git configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := git.Uninstall(); err != nil {
			return fmt.Errorf("uninstalling git integration: %w", err)
		}
		fmt.Println("Successfully uninstalled semdiff from git configuration.")
		return nil
	},
}

var gitStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current git configuration for semdiff",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := git.Status(os.Stdout)
		return err
	},
}

func init() {
	gitCmd.AddCommand(gitInstallCmd, gitUninstallCmd, gitStatusCmd)
	rootCmd.AddCommand(gitCmd)
}
