package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

// settingsRepo overrides just the settings surface; the embedded interface
// stays nil and would panic if the handler reached past it.
type settingsRepo struct {
	repository.Repository
	saved *models.UserSettings
}

func (r *settingsRepo) GetUserSettings(ctx context.Context, userID uint64) (*models.UserSettings, error) {
	if r.saved != nil && r.saved.UserID == userID {
		return r.saved, nil
	}
	return nil, nil
}

func (r *settingsRepo) UpsertUserSettings(ctx context.Context, item *models.UserSettings) error {
	r.saved = item
	return nil
}

func newSettingsRouter(repo repository.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &SettingsHandler{Repo: repo}
	h.Register(engine)
	return engine
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := &settingsRepo{}
	router := newSettingsRouter(repo)

	body := `{"auto_trade_enabled": true, "max_daily_loss": "10000", "max_position_size": "200000", "max_open_positions": 5}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}
	if repo.saved == nil || repo.saved.UserID != 7 || !repo.saved.AutoTradeEnabled {
		t.Fatalf("settings not persisted: %+v", repo.saved)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.Header.Set("X-User-ID", "7")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var envelope struct {
		Data models.UserSettings `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.MaxOpenPositions != 5 {
		t.Fatalf("round trip lost max_open_positions: %+v", envelope.Data)
	}
}

func TestSettingsRejectsNegativeLimits(t *testing.T) {
	repo := &settingsRepo{}
	router := newSettingsRouter(repo)

	body := `{"auto_trade_enabled": true, "max_daily_loss": "-1", "max_open_positions": 5}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if repo.saved != nil {
		t.Fatalf("invalid settings must not be persisted")
	}
}

func TestSettingsRequiresUserHeader(t *testing.T) {
	router := newSettingsRouter(&settingsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without X-User-ID", rec.Code)
	}
}
