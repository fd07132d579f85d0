// Package browser opens pages of the running app in the desktop browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Commander is an interface for executing commands (for testing)
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start executes a command and starts it
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var defaultCommander Commander = RealCommander{}

// Tool pages, addressed by fragment on the index page
const (
	PageWheel   = ""
	PageCoin    = "#coin"
	PageNumbers = "#numbers"
	PageFinger  = "#finger"
)

// Open opens rawURL in the default browser
func Open(rawURL string) error {
	return OpenWithCommander(rawURL, defaultCommander, runtime.GOOS)
}

// OpenPage opens one tool page of the app served at baseURL
func OpenPage(baseURL, page string) error {
	return Open(PageURL(baseURL, page))
}

// PageURL joins baseURL and a tool page fragment
func PageURL(baseURL, page string) string {
	return strings.TrimRight(baseURL, "/") + "/" + page
}

// OpenWithCommander opens the URL using the specified commander and OS (for testing).
// Only absolute http and https URLs are handed to the system opener.
func OpenWithCommander(rawURL string, commander Commander, goos string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) url", rawURL)
	}

	var name string
	var args []string

	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		name = "xdg-open"
		args = []string{rawURL}
	case "darwin":
		name = "open"
		args = []string{rawURL}
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return fmt.Errorf("unsupported platform: %s", goos)
	}

	return commander.Start(name, args...)
}
