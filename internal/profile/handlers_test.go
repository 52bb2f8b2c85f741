package profile

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/profile"), svc, func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	})
	return app
}

func TestProfileHandlers(t *testing.T) {
	mock := newMock(t)
	app := newApp(NewService(mock, ""))
	now := time.Now()

	mock.ExpectQuery(`SELECT id, email`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(profileRowColumns).AddRow("user-1", "ana@example.com", "Ana", "", "", now, now))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/profile/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get profile status: %v", err)
	}

	mock.ExpectQuery(`SELECT notifications`).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/profile/preferences", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get preferences status: %v", err)
	}

	mock.ExpectExec(`INSERT INTO storage_objects`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), "avatar").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE users SET avatar_url`).
		WithArgs("user-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", bytes.NewReader([]byte(`{"file_name":"me.png"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("avatar status: %v", err)
	}
}

func TestProfileHandlersErrors(t *testing.T) {
	mock := newMock(t)
	app := newApp(NewService(mock, ""))

	mock.ExpectQuery(`SELECT id, email`).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/profile/", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPut, "/profile/preferences", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
