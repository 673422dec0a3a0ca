package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Unloads and removes the watch mode LaunchAgent",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not find home directory: %w", err)
		}

		plistPath := launchAgentPath(home)

		log.Printf("unloading LaunchAgent %s", launchAgentLabel)
		if output, err := exec.CommandContext(cmd.Context(), "launchctl", "unload", plistPath).CombinedOutput(); err != nil {
			log.Printf("⚠️ launchctl unload failed (agent may not be loaded): %v\n%s", err, output)
		}

		removed, err := removeLaunchAgent(plistPath)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", plistPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No LaunchAgent installed at %s\n", plistPath)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config, logs and clips were left in place.")
		return nil
	},
}

// removeLaunchAgent deletes the plist and reports whether one was there.
func removeLaunchAgent(plistPath string) (bool, error) {
	err := os.Remove(plistPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not remove %s: %w", plistPath, err)
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
