package models

// WheelTheme is a named color palette; option colors cycle through Colors by index.
type WheelTheme struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Colors []string `json:"colors" yaml:"colors"`
}

// WheelOption is one labelled, weighted choice on a wheel.
type WheelOption struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
}

// WheelSettings toggles per-wheel behavior
type WheelSettings struct {
	AllowDuplicateResults bool `json:"allowDuplicateResults"`
	HideWeights           bool `json:"hideWeights"`
	RepeatOptionsToFill   bool `json:"repeatOptionsToFill"`
}

// Wheel is a saved set of options
type Wheel struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Emoji     string        `json:"emoji"`
	Options   []WheelOption `json:"options"`
	Theme     WheelTheme    `json:"theme"`
	Settings  WheelSettings `json:"settings"`
	Drawn     []string      `json:"drawn,omitempty"` // option IDs already won while duplicates are disallowed
	CreatedAt int64         `json:"createdAt"`
	UpdatedAt int64         `json:"updatedAt"`
}

// WheelHistoryItem records one resolved spin
type WheelHistoryItem struct {
	ID        string `json:"id"`
	WheelID   string `json:"wheelId"`
	OptionID  string `json:"optionId"`
	Result    string `json:"result"`
	Timestamp int64  `json:"timestamp"`
}

// CoinSide is the face a coin landed on
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// CoinStyle is the pair of faces shown on the coin
type CoinStyle struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	HeadsEmoji string `json:"headsEmoji" yaml:"heads"`
	TailsEmoji string `json:"tailsEmoji" yaml:"tails"`
}

// CoinFlipStats counts flips per side
type CoinFlipStats struct {
	HeadsCount int `json:"headsCount"`
	TailsCount int `json:"tailsCount"`
}

// CoinFlipHistoryItem records one resolved flip
type CoinFlipHistoryItem struct {
	ID        string   `json:"id"`
	Result    CoinSide `json:"result"`
	Timestamp int64    `json:"timestamp"`
}

// RandomNumberConfig is the saved number-draw configuration
type RandomNumberConfig struct {
	Min            int  `json:"min"`
	Max            int  `json:"max"`
	Count          int  `json:"count"`
	AllowDuplicate bool `json:"allowDuplicate"`
	Ordered        bool `json:"ordered"`
}

// RandomNumberHistoryItem records one number draw with the config it used
type RandomNumberHistoryItem struct {
	ID        string             `json:"id"`
	Config    RandomNumberConfig `json:"config"`
	Results   []int              `json:"results"`
	Timestamp int64              `json:"timestamp"`
}

// Position is a touch point on the finger roulette board
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FingerPlayer is one participant on the finger roulette board
type FingerPlayer struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Position Position `json:"position"`
}

// FingerRouletteConfig holds finger roulette settings
type FingerRouletteConfig struct {
	WinnerCount int `json:"winnerCount"`
}

// FingerRouletteHistoryItem records one resolved finger roulette round
type FingerRouletteHistoryItem struct {
	ID        string         `json:"id"`
	Players   []FingerPlayer `json:"players"`
	Winners   []FingerPlayer `json:"winners"`
	Timestamp int64          `json:"timestamp"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
