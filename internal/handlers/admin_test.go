package handlers_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/abrezinsky/tinydecisions/internal/auth"
	"github.com/abrezinsky/tinydecisions/internal/backup"
	"github.com/abrezinsky/tinydecisions/internal/handlers"
	"github.com/abrezinsky/tinydecisions/internal/models"
	"github.com/abrezinsky/tinydecisions/internal/services"
)

// ==================== Auth ====================

func TestAdminRoutes_RequireAuth(t *testing.T) {
	setup := newTestSetup(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/export"},
		{http.MethodPost, "/api/admin/import"},
		{http.MethodPut, "/api/admin/share"},
	} {
		rec := setup.do(t, tc.method, tc.path, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestHandleLogin(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodPost, "/api/admin/login", handlers.LoginRequest{Password: "wrong"})
	expectErrorCode(t, rec, http.StatusUnauthorized, handlers.ErrCodeUnauthorized)

	rec = setup.do(t, http.MethodPost, "/api/admin/login", handlers.LoginRequest{Password: "test-password"})
	expectStatus(t, rec, http.StatusOK)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected a session cookie")
	}
	if !setup.handlers.Auth.ValidateSession(session.Value) {
		t.Error("issued session should be valid")
	}
}

func TestHandleLogout(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.doAuth(t, http.MethodPost, "/api/admin/logout", nil)
	expectStatus(t, rec, http.StatusOK)

	if setup.handlers.Auth.ValidateSession(setup.authCookie.Value) {
		t.Error("session should be invalidated after logout")
	}
	rec = setup.doAuth(t, http.MethodGet, "/api/admin/export", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

// ==================== Sharing ====================

func TestHandleShare(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodGet, "/api/share-qr", nil)
	expectErrorCode(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = setup.doAuth(t, http.MethodPut, "/api/admin/share", strings.NewReader(`{"baseUrl":"http://192.168.1.20:8082/"}`))
	expectStatus(t, rec, http.StatusOK)
	var info services.ShareInfo
	decodeBody(t, rec, &info)
	if info.BaseURL != "http://192.168.1.20:8082" || !info.Enabled {
		t.Errorf("unexpected share info: %+v", info)
	}

	rec = setup.do(t, http.MethodGet, "/api/share-qr", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG data")
	}

	rec = setup.doAuth(t, http.MethodPut, "/api/admin/share", strings.NewReader(`{"enabled":false}`))
	expectStatus(t, rec, http.StatusOK)

	rec = setup.do(t, http.MethodGet, "/api/share", nil)
	expectStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &info)
	if info.Enabled || info.BaseURL != "http://192.168.1.20:8082" {
		t.Errorf("unexpected share info: %+v", info)
	}

	rec = setup.do(t, http.MethodGet, "/api/share-qr", nil)
	expectErrorCode(t, rec, http.StatusConflict, handlers.ErrCodeConflict)
}

// ==================== Backup ====================

func TestHandleExportImport(t *testing.T) {
	src := newTestSetup(t)
	wheel := createWheel(t, src, "Lunch")
	src.do(t, http.MethodPost, "/api/coin/flip", nil)
	src.sched.Run()

	rec := src.doAuth(t, http.MethodGet, "/api/admin/export", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/zstd" {
		t.Errorf("expected application/zstd, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".json.zst") {
		t.Errorf("expected attachment filename, got %q", cd)
	}
	exported := rec.Body.Bytes()

	dst := newTestSetup(t)
	rec = dst.doAuth(t, http.MethodPost, "/api/admin/import", bytes.NewReader(exported))
	expectStatus(t, rec, http.StatusOK)
	var result backup.ImportResult
	decodeBody(t, rec, &result)
	if len(result.Keys) == 0 {
		t.Error("expected restored keys")
	}

	rec = dst.do(t, http.MethodGet, "/api/wheels/"+wheel.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	var restored models.Wheel
	decodeBody(t, rec, &restored)
	if restored.Title != "Lunch" {
		t.Errorf("expected restored wheel, got %+v", restored)
	}

	rec = dst.do(t, http.MethodGet, "/api/coin", nil)
	var coin services.CoinState
	decodeBody(t, rec, &coin)
	if coin.Stats.HeadsCount+coin.Stats.TailsCount != 1 {
		t.Errorf("expected restored coin stats, got %+v", coin.Stats)
	}
}

func TestHandleImport_Invalid(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.doAuth(t, http.MethodPost, "/api/admin/import", strings.NewReader(`not json`))
	expectErrorCode(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = setup.doAuth(t, http.MethodPost, "/api/admin/import", strings.NewReader(`{"format":"other","version":1,"exportedAt":0,"data":{}}`))
	expectErrorCode(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)
}

func TestHandleExport_RepositoryError(t *testing.T) {
	setup, m := newTestSetupWithMockRepo(t)
	m.SnapshotError = errTest

	rec := setup.doAuth(t, http.MethodGet, "/api/admin/export", nil)
	expectErrorCode(t, rec, http.StatusInternalServerError, handlers.ErrCodeInternalServer)
	if cd := rec.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("failed export must not look like a download, got %q", cd)
	}
}
