package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/logger"
)

const launchAgentLabel = "com.user.badgerclips"

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a starter config and, on macOS, a LaunchAgent for watch mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not find home directory: %w", err)
		}

		// 1. Config file
		cfgPath := cfgFile
		if cfgPath == "" {
			cfgPath, _ = config.DefaultPath()
		}
		starter := starterConfig(home)
		if _, err := os.Stat(cfgPath); err == nil && !flagForce {
			log.Printf("ℹ️ config already exists, keeping it: %s (use --force to overwrite)", cfgPath)
		} else {
			if err := writeConfig(cfgPath, starter); err != nil {
				return err
			}
			log.Printf("✅ wrote config: %s", cfgPath)
		}

		// 2. Directories
		for _, dir := range append([]string{starter.OutputDir}, starter.WatchDirs...) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Printf("could not create %s: %v", dir, err)
			} else {
				log.Printf("✅ directory ready: %s", dir)
			}
		}

		if runtime.GOOS != "darwin" {
			return nil
		}

		// 3. LaunchAgent
		execPath, err := os.Executable()
		if err != nil {
			execPath = "/usr/local/bin/badgerclips" // fallback
		}
		plistPath := launchAgentPath(home)
		if err := os.MkdirAll(filepath.Dir(plistPath), 0755); err != nil {
			return err
		}
		f, err := os.Create(plistPath)
		if err != nil {
			return fmt.Errorf("could not create plist: %w", err)
		}
		err = renderLaunchAgent(f, execPath, cfgPath, logger.DefaultPath())
		f.Close()
		if err != nil {
			return fmt.Errorf("could not write plist: %w", err)
		}
		log.Printf("✅ wrote LaunchAgent: %s", plistPath)

		fmt.Fprint(cmd.OutOrStdout(), "Load the LaunchAgent now? (y/n) ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.EqualFold(strings.TrimSpace(response), "y") {
			exec.Command("launchctl", "unload", plistPath).Run()
			if output, err := exec.Command("launchctl", "load", plistPath).CombinedOutput(); err != nil {
				log.Printf("❌ launchctl load failed: %v\n%s", err, string(output))
			} else {
				log.Println("✅ LaunchAgent loaded; badgerclips watch is running in the background.")
			}
		} else {
			log.Println("Skipped. To load it later run:")
			fmt.Fprintf(cmd.OutOrStdout(), "launchctl load %s\n", plistPath)
		}
		return nil
	},
}

func starterConfig(home string) *config.Config {
	c := config.NewDefault()
	c.ClipLength = 60
	c.OutputDir = filepath.Join(home, "Movies", "badgerclips")
	c.WatchDirs = []string{filepath.Join(home, "Movies", "badgerclips-inbox")}
	return c
}

func writeConfig(path string, c *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func launchAgentPath(home string) string {
	return filepath.Join(home, "Library", "LaunchAgents", launchAgentLabel+".plist")
}

var plistTmpl = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecPath}}</string>
        <string>--config</string>
        <string>{{.ConfigPath}}</string>
        <string>watch</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardOutPath</key>
    <string>{{.LogPath}}</string>
    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>
</dict>
</plist>
`))

func renderLaunchAgent(w io.Writer, execPath, configPath, logPath string) error {
	return plistTmpl.Execute(w, struct {
		Label      string
		ExecPath   string
		ConfigPath string
		LogPath    string
	}{launchAgentLabel, execPath, configPath, logPath})
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
