package handlers

import "github.com/abrezinsky/tinydecisions/internal/models"

// ThemesResponse is the response for the theme catalog
type ThemesResponse struct {
	Themes []models.WheelTheme `json:"themes"`
}

// CoinStylesResponse is the response for the coin style catalog
type CoinStylesResponse struct {
	Styles []models.CoinStyle `json:"styles"`
}

// WheelHistoryResponse is the response for a wheel's recent results
type WheelHistoryResponse struct {
	WheelID string                    `json:"wheelId"`
	History []models.WheelHistoryItem `json:"history"`
}

// OptionsResponse is the response for a batch of new options
type OptionsResponse struct {
	Options []models.WheelOption `json:"options"`
}
