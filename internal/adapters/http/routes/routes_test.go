package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/config"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/core/services"
	"contribution-hub/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	cfg := &config.Config{
		AppMode: "dev",
		Store:   config.StoreConfig{Driver: config.StoreMemory},
		JWT:     config.JWTConfig{Secret: "routes-secret", AccessTokenMins: 15},
		Cookie:  config.CookieConfig{SameSite: "Lax"},
		Ledger:  config.LedgerConfig{AccrualCatchUp: true, DueSoonDays: 7},
		Seed:    config.SeedConfig{Manager1Password: "admin1-change-me", Manager2Password: "admin2-change-me"},
	}

	notifier := repositories.NewMemoryChangeNotifier()
	t.Cleanup(func() { _ = notifier.Close() })

	store := repositories.NewLedgerStore(repositories.NewMemoryKeyValueRepository(), notifier, repositories.DefaultKeyPrefix)
	require.NoError(t, config.NewSeeder(store, cfg).Run(context.Background()))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, services.NewContainer(services.NewUnitOfWork(store), cfg), notifier, cfg)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse, http.Header) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out, resp.Header
}

// login authenticates and, when required, replaces the temporary password
func login(t *testing.T, app *fiber.App, membNo, pass, newPass string) string {
	t.Helper()

	status, res, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"memb_no":  membNo,
		"password": pass,
	})
	require.Equal(t, http.StatusOK, status, res.Error)
	token := res.Data["access_token"].(string)

	if res.Data["password_change_required"] == true {
		status, res, _ = call(t, app, http.MethodPut, "/api/v1/auth/password", token, fiber.Map{
			"new_password": newPass,
		})
		require.Equal(t, http.StatusOK, status, res.Error)
		token = res.Data["access_token"].(string)
	}
	return token
}

func TestHealthAndAuthGuards(t *testing.T) {
	app := newTestApp(t)

	status, _, _ := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, res, _ := call(t, app, http.MethodGet, "/api/v1/loans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, res.Success)

	status, _, _ = call(t, app, http.MethodGet, "/api/v1/loans", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, res, _ = call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"memb_no":  "ADMIN-01",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", res.Error)
}

func TestFirstLoginMustChangePassword(t *testing.T) {
	app := newTestApp(t)

	status, res, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"memb_no":  "admin-01",
		"password": "admin1-change-me",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, res.Data["password_change_required"])
	token := res.Data["access_token"].(string)

	status, res, _ = call(t, app, http.MethodGet, "/api/v1/dashboard/manager", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Password change required", res.Error)

	status, _, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)

	// Own inbox is readable before the password change, broadcasting is not
	status, _, _ = call(t, app, http.MethodGet, "/api/v1/notifications", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, res, _ = call(t, app, http.MethodPost, "/api/v1/notifications", token, fiber.Map{"message": "hello"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Password change required", res.Error)

	status, res, _ = call(t, app, http.MethodPut, "/api/v1/auth/password", token, fiber.Map{"new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, status)

	fresh := login(t, app, "ADMIN-01", "admin1-change-me", "manager-pass-1")
	status, _, _ = call(t, app, http.MethodGet, "/api/v1/dashboard/manager", fresh, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestContributionLifecycle(t *testing.T) {
	app := newTestApp(t)
	manager := login(t, app, "ADMIN-01", "admin1-change-me", "manager-pass-1")

	// Register and approve a client
	status, res, _ := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name":  "Dana Client",
		"email": "dana@example.com",
	})
	require.Equal(t, http.StatusCreated, status, res.Error)
	clientID := res.Data["id"].(string)

	status, res, _ = call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"memb_no":  "C-07",
		"password": "temp-pass-1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, res, _ = call(t, app, http.MethodPost, "/api/v1/users/"+clientID+"/approve", manager, fiber.Map{
		"memb_no":       "c-07",
		"temp_password": "temp-pass-1",
	})
	require.Equal(t, http.StatusOK, status, res.Error)

	status, res, _ = call(t, app, http.MethodPost, "/api/v1/users/"+clientID+"/approve", manager, fiber.Map{
		"memb_no":       "C-08",
		"temp_password": "temp-pass-1",
	})
	assert.Equal(t, http.StatusBadRequest, status, "approving twice")

	client := login(t, app, "C-07", "temp-pass-1", "client-pass-1")

	// Clients cannot reach manager routes
	status, _, _ = call(t, app, http.MethodGet, "/api/v1/dashboard/manager", client, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Submit and approve a contribution
	status, res, _ = call(t, app, http.MethodPost, "/api/v1/payments", client, fiber.Map{
		"amount":      "300",
		"type":        "Contribution",
		"receipt_url": "https://receipts.example.org/1.png",
	})
	require.Equal(t, http.StatusCreated, status, res.Error)
	paymentID := res.Data["payment"].(map[string]interface{})["id"].(string)

	status, res, _ = call(t, app, http.MethodPost, "/api/v1/payments", client, fiber.Map{
		"amount":      "-5",
		"type":        "Contribution",
		"receipt_url": "r",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, res, _ = call(t, app, http.MethodPut, "/api/v1/payments/"+paymentID+"/status", manager, fiber.Map{"status": "approved"})
	require.Equal(t, http.StatusOK, status, res.Error)

	status, res, _ = call(t, app, http.MethodGet, "/api/v1/payments/"+paymentID, manager, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPROVED", res.Data["payment"].(map[string]interface{})["status"])

	status, _, _ = call(t, app, http.MethodPut, "/api/v1/payments/p-missing/status", manager, fiber.Map{"status": "APPROVED"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = call(t, app, http.MethodPut, "/api/v1/payments/"+paymentID+"/status", manager, fiber.Map{"status": "LOST"})
	assert.Equal(t, http.StatusBadRequest, status)

	// Issue a loan
	status, res, _ = call(t, app, http.MethodPost, "/api/v1/loans", manager, fiber.Map{
		"client_id": clientID,
		"principal": "1000",
	})
	require.Equal(t, http.StatusCreated, status, res.Error)
	loan := res.Data["loan"].(map[string]interface{})
	assert.Equal(t, "950", loan["disbursement_amount"])
	assert.Equal(t, "1000", loan["balance"])

	status, _, _ = call(t, app, http.MethodPost, "/api/v1/loans", manager, fiber.Map{
		"client_id": clientID,
		"principal": "0",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Manager view
	status, res, header := call(t, app, http.MethodGet, "/api/v1/dashboard/manager", manager, nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	assert.Contains(t, header.Get("Cache-Control"), "no-store")

	view := res.Data["ledger"].(map[string]interface{})
	assert.Equal(t, "300", view["total_inflow"])
	assert.Equal(t, "950", view["total_disbursed"])
	assert.Equal(t, "1000", view["total_outstanding"])
	assert.Equal(t, "-650", view["net_liquidity"])

	// Client view
	status, res, _ = call(t, app, http.MethodGet, "/api/v1/dashboard/client", client, nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	assert.Equal(t, "300", res.Data["total"])
	assert.Equal(t, "1000", res.Data["loan_debt"])
	assert.Len(t, res.Data["notifications"], 2)

	status, preview, _ := call(t, app, http.MethodGet, "/api/v1/dashboard/clients/"+clientID, manager, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, res.Data["total"], preview.Data["total"])

	// Paginated payment listing
	status, res, _ = call(t, app, http.MethodGet, "/api/v1/payments?status=APPROVED&page=1&limit=1", manager, nil)
	require.Equal(t, http.StatusOK, status)
	meta := res.Data["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["total"])
	assert.Len(t, res.Data["data"], 1)

	// Cascade delete
	status, _, _ = call(t, app, http.MethodDelete, "/api/v1/users/"+clientID, manager, nil)
	require.Equal(t, http.StatusOK, status)

	status, res, _ = call(t, app, http.MethodGet, "/api/v1/loans", manager, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, res.Data["loans"])
}

func TestNotificationsAndSettings(t *testing.T) {
	app := newTestApp(t)
	manager := login(t, app, "ADMIN-02", "admin2-change-me", "manager-pass-2")

	status, res, _ := call(t, app, http.MethodPost, "/api/v1/notifications", manager, fiber.Map{
		"message": "Meeting on Friday",
	})
	require.Equal(t, http.StatusCreated, status, res.Error)
	assert.Equal(t, "ALL", res.Data["notification"].(map[string]interface{})["recipient_id"])

	status, _, _ = call(t, app, http.MethodPost, "/api/v1/notifications", manager, fiber.Map{
		"message": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, res, _ = call(t, app, http.MethodGet, "/api/v1/notifications", manager, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, res.Data["notifications"], 1)

	status, _, _ = call(t, app, http.MethodPut, "/api/v1/settings", manager, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, res, _ = call(t, app, http.MethodPut, "/api/v1/settings", manager, fiber.Map{
		"automated_reminders_enabled": false,
	})
	require.Equal(t, http.StatusOK, status, res.Error)

	status, res, _ = call(t, app, http.MethodGet, "/api/v1/settings", manager, nil)
	require.Equal(t, http.StatusOK, status)
	settings := res.Data["settings"].(map[string]interface{})
	assert.Equal(t, false, settings["automated_reminders_enabled"])
}

func TestRejectedAccountLosesAccess(t *testing.T) {
	app := newTestApp(t)
	manager := login(t, app, "ADMIN-01", "admin1-change-me", "manager-pass-1")

	clientIDs := make([]string, 0, 2)
	tokens := make([]string, 0, 2)
	for _, membNo := range []string{"C-21", "C-22"} {
		status, res, _ := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
			"name":  "Client " + membNo,
			"email": strings.ToLower(membNo) + "@example.com",
		})
		require.Equal(t, http.StatusCreated, status, res.Error)
		id := res.Data["id"].(string)

		status, res, _ = call(t, app, http.MethodPost, "/api/v1/users/"+id+"/approve", manager, fiber.Map{
			"memb_no":       membNo,
			"temp_password": "temp-pass-1",
		})
		require.Equal(t, http.StatusOK, status, res.Error)

		clientIDs = append(clientIDs, id)
		tokens = append(tokens, login(t, app, membNo, "temp-pass-1", "client-pass-1"))
	}
	rejected, deleted := tokens[0], tokens[1]

	for _, token := range tokens {
		status, _, _ := call(t, app, http.MethodGet, "/api/v1/dashboard/client", token, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, res, _ := call(t, app, http.MethodPost, "/api/v1/users/"+clientIDs[0]+"/reject", manager, nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	status, _, _ = call(t, app, http.MethodDelete, "/api/v1/users/"+clientIDs[1], manager, nil)
	require.Equal(t, http.StatusOK, status)

	for _, path := range []string{"/api/v1/dashboard/client", "/api/v1/notifications", "/api/v1/auth/me", "/api/v1/payments/my"} {
		status, res, _ = call(t, app, http.MethodGet, path, rejected, nil)
		assert.Equal(t, http.StatusForbidden, status, path)
		assert.Contains(t, res.Error, domain.ErrAccountRejected.Error(), path)

		status, _, _ = call(t, app, http.MethodGet, path, deleted, nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}

	status, _, _ = call(t, app, http.MethodGet, "/api/v1/dashboard/manager", manager, nil)
	assert.Equal(t, http.StatusOK, status)
}
