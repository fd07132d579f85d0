package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/tinydecisions/internal/auth"
	"github.com/abrezinsky/tinydecisions/internal/backup"
	"github.com/abrezinsky/tinydecisions/internal/models"
	"github.com/abrezinsky/tinydecisions/internal/services"
	"github.com/abrezinsky/tinydecisions/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// IndexPageData holds the data passed to the index template
type IndexPageData struct {
	Title        string
	Themes       []models.WheelTheme
	CoinStyles   []models.CoinStyle
	PlayerColors []string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index *template.Template
}

// BackupServicer exports and restores the store
type BackupServicer interface {
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*backup.ImportResult, error)
}

// Services groups the decision services the handlers call
type Services struct {
	Wheels  services.WheelServicer
	Coin    services.CoinServicer
	Numbers services.NumberServicer
	Finger  services.FingerServicer
	Share   services.ShareServicer
	Status  services.StatusServicer
	Backup  BackupServicer

	Themes       []models.WheelTheme
	PlayerColors []string
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Wheels  services.WheelServicer
	Coin    services.CoinServicer
	Numbers services.NumberServicer
	Finger  services.FingerServicer
	Share   services.ShareServicer
	Status  services.StatusServicer
	Backup  BackupServicer

	themes       []models.WheelTheme
	playerColors []string

	Auth         *auth.Auth
	Hub          *websocket.Hub
	Log          HTTPLogger
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	templatesFS fs.FS,
	staticServer http.Handler,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	h := fromServices(svc)
	h.Auth = adminAuth
	h.Hub = hub
	h.Log = log
	h.templates = templates
	h.staticServer = staticServer
	return h, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without templates, a hub or
// static files (for testing API endpoints)
func NewForTesting(svc Services) *Handlers {
	h := fromServices(svc)
	h.Auth = auth.New("test-password")
	h.Log = NoopHTTPLogger{}
	return h
}

func fromServices(svc Services) *Handlers {
	return &Handlers{
		Wheels:       svc.Wheels,
		Coin:         svc.Coin,
		Numbers:      svc.Numbers,
		Finger:       svc.Finger,
		Share:        svc.Share,
		Status:       svc.Status,
		Backup:       svc.Backup,
		themes:       svc.Themes,
		playerColors: svc.PlayerColors,
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	return t, nil
}
