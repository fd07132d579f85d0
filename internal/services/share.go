package services

import (
	"context"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/tinydecisions/internal/errors"
	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/repository"
)

// Setting keys
const (
	SettingBaseURL      = "base_url"
	SettingShareEnabled = "share_enabled"
)

// ShareInfo tells clients where the app can be reached on the LAN
type ShareInfo struct {
	BaseURL string `json:"baseUrl"`
	Enabled bool   `json:"enabled"`
}

// ShareService manages the LAN base URL and its QR code
type ShareService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewShareService creates a new ShareService
func NewShareService(log logger.Logger, repo repository.SettingsRepository) *ShareService {
	return &ShareService{log: log, repo: repo}
}

// GetBaseURL returns the configured base URL, or "" when none is set
func (s *ShareService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetBaseURL saves the base URL
func (s *ShareService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingBaseURL, strings.TrimSuffix(strings.TrimSpace(url), "/"))
}

// SetDefaultBaseURL stores baseURL unless a usable, non-localhost value exists
func (s *ShareService) SetDefaultBaseURL(ctx context.Context, baseURL string) {
	existing, _ := s.GetBaseURL(ctx)
	if existing != "" && !strings.Contains(existing, "localhost") {
		return
	}
	if err := s.SetBaseURL(ctx, baseURL); err != nil {
		s.log.Warn("Failed to set default base_url", "error", err)
		return
	}
	s.log.Info("Default base URL set", "url", baseURL)
}

// IsEnabled reports whether the share QR is offered
func (s *ShareService) IsEnabled(ctx context.Context) (bool, error) {
	value, err := s.repo.GetSetting(ctx, SettingShareEnabled)
	if err != nil {
		if err == repository.ErrNotFound {
			return true, nil
		}
		return false, err
	}
	return value == "true", nil
}

// SetEnabled turns the share QR on or off
func (s *ShareService) SetEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.repo.SetSetting(ctx, SettingShareEnabled, value)
}

// Info returns the base URL and whether sharing is on
func (s *ShareService) Info(ctx context.Context) (*ShareInfo, error) {
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	enabled, err := s.IsEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return &ShareInfo{BaseURL: baseURL, Enabled: enabled}, nil
}

// QRImage renders the base URL as a PNG QR code
func (s *ShareService) QRImage(ctx context.Context) ([]byte, error) {
	enabled, err := s.IsEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, errors.Conflict("sharing is disabled")
	}
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, ErrBaseURLNotConfigured
	}
	return qrcode.Encode(baseURL+"/", qrcode.Medium, 256)
}
