package deps

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
)

const FfmpegInstallURL = "https://ffmpeg.org/download.html"

// DependencyError reports an external tool missing from PATH.
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// LookPath is swapped in tests.
var LookPath = exec.LookPath

// Check returns the resolved path of bin or a *DependencyError.
func Check(bin string) (string, error) {
	path, err := LookPath(bin)
	if err != nil {
		return "", &DependencyError{Name: bin, InstallURL: FfmpegInstallURL}
	}
	return path, nil
}

// CheckAll checks every binary and returns the missing ones.
func CheckAll(bins ...string) []error {
	var errs []error
	for _, b := range bins {
		if _, err := Check(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Warn logs missing tools and, when Homebrew manages ffmpeg, an available upgrade.
func Warn(ffmpegBin, ffprobeBin string) {
	for _, err := range CheckAll(ffmpegBin, ffprobeBin) {
		log.Printf("⚠️ %v", err)
	}

	if _, err := LookPath("brew"); err == nil {
		output, err := exec.Command("brew", "outdated", "ffmpeg").CombinedOutput()
		if err == nil && strings.Contains(string(output), "ffmpeg") {
			log.Println("ℹ️ an ffmpeg update is available:")
			log.Println("   brew upgrade ffmpeg")
		}
	}
}

// Version returns the first line of `<bin> -version`.
func Version(bin string) (string, error) {
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}
