package main

import (
	"fmt"

	"github.com/abrezinsky/tinydecisions/internal/browser"
	"github.com/abrezinsky/tinydecisions/internal/logger"
)

// keyboardActions is what the shortcut keys act on
type keyboardActions struct {
	baseURL string
	log     *logger.SlogLogger
	open    func(baseURL, page string) error
	quit    func()
}

var pageKeys = map[byte]struct {
	page string
	name string
}{
	'w': {browser.PageWheel, "wheel"},
	'c': {browser.PageCoin, "coin flip"},
	'n': {browser.PageNumbers, "number draw"},
	'f': {browser.PageFinger, "finger roulette"},
}

func openPage(baseURL, page string) error {
	return browser.OpenPage(baseURL, page)
}

// handleKey runs the action bound to key. It returns false once the user quits.
func handleKey(key byte, act keyboardActions) bool {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}

	if p, ok := pageKeys[key]; ok {
		fmt.Printf("%sOpening %s in browser...%s\n", cyan, p.name, reset)
		if err := act.open(act.baseURL, p.page); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
		return true
	}

	switch key {
	case 'h':
		if act.log.IsHTTPLoggingEnabled() {
			act.log.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			act.log.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case 'l':
		next := logger.NextLevel(act.log.GetLevel())
		act.log.SetLevel(next)
		fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
	case '?':
		printKeyboardHelp()
	case 'q', 0x03: // q or Ctrl+C
		act.quit()
		return false
	}
	return true
}
