package watcher

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// SendNotification sends a desktop notification
func SendNotification(title, message, openPath string) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("terminal-notifier"); err == nil {
			args := []string{"-title", title, "-message", message, "-sound", "default"}
			if openPath != "" {
				u := url.URL{Scheme: "file", Path: openPath}
				args = append(args, "-open", u.String())
			}
			exec.Command("terminal-notifier", args...).Run()
			return
		}
		// Fallback
		script := fmt.Sprintf(`display notification %q with title %q sound name "default"`, message, title)
		exec.Command("osascript", "-e", script).Run()
	case "linux":
		if _, err := exec.LookPath("notify-send"); err == nil {
			exec.Command("notify-send", title, message).Run()
		}
	}
}
