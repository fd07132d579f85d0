package handlers

import "github.com/abrezinsky/tinydecisions/internal/models"

// WheelCreateRequest represents a request to create a wheel
type WheelCreateRequest struct {
	Title string `json:"title"`
}

// WheelUpdateRequest represents a request to edit a wheel's title, emoji or theme.
// Omitted fields are left unchanged.
type WheelUpdateRequest struct {
	Title   *string `json:"title"`
	Emoji   *string `json:"emoji"`
	ThemeID *string `json:"themeId"`
}

// OptionCreateRequest represents a request to add one option
type OptionCreateRequest struct {
	Label string `json:"label"`
}

// OptionBatchRequest represents a request to add one option per line of Text
type OptionBatchRequest struct {
	Text string `json:"text"`
}

// OptionUpdateRequest represents a request to edit an option
type OptionUpdateRequest struct {
	Label  *string  `json:"label"`
	Weight *float64 `json:"weight"`
	Color  *string  `json:"color"`
}

// WheelSettingsRequest represents a request to toggle wheel settings
type WheelSettingsRequest struct {
	AllowDuplicateResults *bool `json:"allowDuplicateResults"`
	HideWeights           *bool `json:"hideWeights"`
	RepeatOptionsToFill   *bool `json:"repeatOptionsToFill"`
}

// CoinStyleRequest represents a request to pick a coin style
type CoinStyleRequest struct {
	ID string `json:"id"`
}

// PlayerCreateRequest represents a finger touching the board
type PlayerCreateRequest struct {
	Position models.Position `json:"position"`
	Name     string          `json:"name"`
}

// PlayerRenameRequest represents a request to rename a player
type PlayerRenameRequest struct {
	Name string `json:"name"`
}

// LoginRequest represents an admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// ShareUpdateRequest represents a request to change the share settings
type ShareUpdateRequest struct {
	BaseURL *string `json:"baseUrl"`
	Enabled *bool   `json:"enabled"`
}
