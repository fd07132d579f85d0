package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/tinydecisions/internal/auth"
	"github.com/abrezinsky/tinydecisions/internal/backup"
	"github.com/abrezinsky/tinydecisions/internal/config"
	"github.com/abrezinsky/tinydecisions/internal/handlers"
	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/presets"
	"github.com/abrezinsky/tinydecisions/internal/repository"
	"github.com/abrezinsky/tinydecisions/internal/services"
	"github.com/abrezinsky/tinydecisions/internal/websocket"
)

// StatusInterval is how often the hub checks the busy flags for changes
const StatusInterval = 250 * time.Millisecond

// App holds all application dependencies
type App struct {
	log         logger.Logger
	handlers    *handlers.Handlers
	repo        *repository.Repository
	share       *services.ShareService
	hub         *websocket.Hub
	server      *http.Server
	cancelWatch context.CancelFunc
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg config.Config, templatesFS, staticFS fs.FS, adminAuth *auth.Auth) (*App, error) {
	catalog, err := presets.Load(cfg.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	rt := services.DefaultRuntime()
	wheelService := services.NewWheelService(log, repo, catalog, rt, cfg.SpinDuration)
	coinService := services.NewCoinService(log, repo, catalog, rt, cfg.FlipDuration)
	numberService := services.NewNumberService(log, repo, rt)
	fingerService := services.NewFingerService(log, repo, catalog, rt, cfg.SelectDuration)
	shareService := services.NewShareService(log, repo)
	statusService := services.NewStatusService(wheelService, coinService, fingerService)

	backupService, err := backup.New(log, repo)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize backup: %w", err)
	}

	// Initialize WebSocket hub and fan results out through it
	hub := websocket.New(log, statusService)
	hub.Start()
	wheelService.SetBroadcaster(hub)
	coinService.SetBroadcaster(hub)
	numberService.SetBroadcaster(hub)
	fingerService.SetBroadcaster(hub)
	backupService.SetBroadcaster(hub)

	// Watch busy flags with context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go hub.WatchStatus(ctx, StatusInterval)

	staticServer := handlers.NewStaticServer(staticFS)

	h, err := handlers.New(
		handlers.Services{
			Wheels:       wheelService,
			Coin:         coinService,
			Numbers:      numberService,
			Finger:       fingerService,
			Share:        shareService,
			Status:       statusService,
			Backup:       backupService,
			Themes:       catalog.Themes,
			PlayerColors: catalog.PlayerColors,
		},
		templatesFS,
		staticServer,
		adminAuth,
		hub,
		log,
	)
	if err != nil {
		cancel()
		hub.Stop()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
		share:    shareService,
		hub:      hub,
		server: &http.Server{
			Handler:           h.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		cancelWatch: cancel,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close stops the status watcher, the hub and the server.
// It is safe to call more than once.
func (a *App) Close() {
	if a.cancelWatch != nil {
		a.cancelWatch()
	}
	a.hub.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Warn("Server shutdown", "error", err)
	}
}

// Shutdown closes the app and its database
func (a *App) Shutdown() {
	a.Close()
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Failed to close database", "error", err)
	}
}

// BaseURL returns the LAN address the app advertises for addr
func BaseURL(addr string) string {
	ip := getPreferredIP(realNetworkProvider{})
	return fmt.Sprintf("http://%s%s", ip, addr)
}

// Run starts the HTTP server and blocks until it stops
func (a *App) Run(addr string) error {
	// Set default base URL if not configured, using detected LAN IP
	baseURL := BaseURL(addr)
	a.share.SetDefaultBaseURL(context.Background(), baseURL)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	a.log.Info("Server starting", "url", baseURL)
	err = a.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access.
// Private ranges win over public ones; "localhost" when nothing is up.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
