package browser

import (
	"fmt"
	"strings"
	"testing"
)

// mockCommander records command executions for testing
type mockCommander struct {
	lastCommand string
	lastArgs    []string
	calls       int
	startError  error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.calls++
	m.lastCommand = name
	m.lastArgs = args
	return m.startError
}

func TestOpenWithCommander_Platforms(t *testing.T) {
	url := "http://192.168.1.20:8082/#coin"

	tests := []struct {
		goos    string
		command string
		args    []string
	}{
		{"linux", "xdg-open", []string{url}},
		{"freebsd", "xdg-open", []string{url}},
		{"darwin", "open", []string{url}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", url}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			mock := &mockCommander{}

			if err := OpenWithCommander(url, mock, tt.goos); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if mock.lastCommand != tt.command {
				t.Errorf("expected command %q, got %q", tt.command, mock.lastCommand)
			}
			if strings.Join(mock.lastArgs, " ") != strings.Join(tt.args, " ") {
				t.Errorf("expected args %v, got %v", tt.args, mock.lastArgs)
			}
		})
	}
}

func TestOpenWithCommander_UnsupportedPlatform(t *testing.T) {
	mock := &mockCommander{}

	err := OpenWithCommander("http://localhost:8082/", mock, "plan9")

	if err == nil {
		t.Fatal("expected error for unsupported platform")
	}
	if !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("expected 'unsupported platform' error, got: %v", err)
	}
	if mock.calls != 0 {
		t.Error("no command should run on an unsupported platform")
	}
}

func TestOpenWithCommander_RejectsNonHTTP(t *testing.T) {
	for _, raw := range []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"/relative/path",
		"http://",
		"://bad",
	} {
		mock := &mockCommander{}
		if err := OpenWithCommander(raw, mock, "linux"); err == nil {
			t.Errorf("%q: expected error", raw)
		}
		if mock.calls != 0 {
			t.Errorf("%q: command should not run", raw)
		}
	}
}

func TestOpenWithCommander_CommandError(t *testing.T) {
	mock := &mockCommander{startError: fmt.Errorf("command failed")}

	err := OpenWithCommander("https://example.com", mock, "linux")

	if err == nil || err.Error() != "command failed" {
		t.Errorf("expected command error to be returned, got: %v", err)
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		base, page, want string
	}{
		{"http://10.0.0.5:8082", PageWheel, "http://10.0.0.5:8082/"},
		{"http://10.0.0.5:8082/", PageCoin, "http://10.0.0.5:8082/#coin"},
		{"http://localhost:8082", PageNumbers, "http://localhost:8082/#numbers"},
		{"http://localhost:8082//", PageFinger, "http://localhost:8082/#finger"},
	}
	for _, tt := range tests {
		if got := PageURL(tt.base, tt.page); got != tt.want {
			t.Errorf("PageURL(%q, %q) = %q, want %q", tt.base, tt.page, got, tt.want)
		}
	}
}

func TestRealCommander_ImplementsInterface(t *testing.T) {
	var _ Commander = RealCommander{}
}

func TestDefaultCommander_IsReal(t *testing.T) {
	if _, ok := defaultCommander.(RealCommander); !ok {
		t.Error("expected default commander to be RealCommander")
	}
}
