package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abrezinsky/tinydecisions/internal/app"
	"github.com/abrezinsky/tinydecisions/internal/auth"
	"github.com/abrezinsky/tinydecisions/internal/config"
	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/web"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

var (
	version = "dev"
)

// showStartupAnimation displays the logo, then a short spinner that lands on a random pick
func showStartupAnimation(skipSpin bool) {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"   _____ _               ___          _     _                 ",
		"  |_   _(_)_ _ _  _     |   \\ ___ __(_)__ (_)___ _ _  ___    ",
		"    | | | | ' \\ || |    | |) / -_) _| (_-< / _ \\ ' \\(_-<    ",
		"    |_| |_|_||_\\_, |    |___/\\___\\__|_/__/_\\___/_||_/__/    ",
		"               |__/                                          ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-*s%s║%s\n", cyan, yellow, width, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n", cyan, border, reset)

	if skipSpin {
		fmt.Print("\n")
		return
	}

	picks := []string{"Pizza", "Tacos", "Sushi", "Curry", "Salad", "Ramen"}
	frames := []string{"|", "/", "-", "\\"}
	start := time.Now().Nanosecond() % len(picks)

	// Slow down like a wheel coming to rest
	steps := 18
	for i := 0; i <= steps; i++ {
		pick := picks[(start+i)%len(picks)]
		line := fmt.Sprintf(" %s  %s", frames[i%len(frames)], pick)
		if i == steps {
			line = fmt.Sprintf(" ▶  %s%s%s", green, pick, reset)
		}
		fmt.Printf("%s  %s\r", clearLine, line)
		time.Sleep(time.Duration(30+i*i) * time.Millisecond)
	}
	fmt.Print("\n\n")
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sw%s      - Open the wheel in browser\n", cyan, reset)
	fmt.Printf("    %sc%s      - Open the coin flip in browser\n", cyan, reset)
	fmt.Printf("    %sn%s      - Open the number draw in browser\n", cyan, reset)
	fmt.Printf("    %sf%s      - Open finger roulette in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Tiny Decisions - wheel, coin, numbers and finger roulette

Usage:
  tinydecisions [options]

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Every option can also be set with a TD_* environment variable or in a .env
file, e.g. TD_PORT=8080 or TD_SPIN_DURATION=5s. Flags win.

Examples:
  tinydecisions                          # Run on port 8082 with tinydecisions.db
  tinydecisions -port 8080               # Run on port 8080
  tinydecisions -db /data/decisions.db   # Use custom database path
  tinydecisions -presets themes.yaml     # Use custom themes and coin styles
  tinydecisions -spin 0 -flip 0          # Reveal results immediately

`)
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	cfg.RegisterFlags(flag.CommandLine)
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("tinydecisions %s\n", version)
		os.Exit(0)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	showStartupAnimation(cfg.NoAnimate)

	// Setup admin authentication
	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		HTTP:   cfg.HTTPLog,
	})

	a, err := app.New(appLog, cfg, web.GetTemplatesFS(), web.GetStaticFS(), adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Shutdown()

	appLog.Info("Admin password", "password", password)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(cfg.Addr())
	}()

	// Print keyboard shortcuts and start listener (unless disabled)
	if !cfg.NoKeyboard {
		printKeyboardHelp()
		restore := startKeyboard(keyboardActions{
			baseURL: fmt.Sprintf("http://localhost:%d", cfg.Port),
			log:     appLog,
			open:    openPage,
			quit:    stop,
		})
		defer restore()
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	select {
	case err := <-serverErr:
		if err != nil {
			appLog.Error("Server stopped", "error", err)
		}
	case <-ctx.Done():
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
	}
}
