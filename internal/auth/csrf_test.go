package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/config"
	"github.com/spec-kit/store-service/internal/observability"
)

func testCSRFConfig() config.CSRFConfig {
	return config.CSRFConfig{
		CookieName:    "csrf-token",
		HeaderName:    "X-CSRF-Token",
		TokenLength:   32,
		MaxAgeSeconds: 3600,
	}
}

func newTestGuard(cfg config.CSRFConfig) *CSRFGuard {
	return NewCSRFGuard(cfg, zap.NewNop(), observability.NewMetrics())
}

func csrfApp(guard *CSRFGuard) *fiber.App {
	app := fiber.New()
	app.Use(guard.Middleware())
	app.Get("/token", func(c *fiber.Ctx) error {
		token, err := guard.Issue(c, "")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"token": token})
	})
	app.Get("/read", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Post("/write", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Post("/exempt", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	return app
}

func TestCSRFValidate(t *testing.T) {
	guard := newTestGuard(testCSRFConfig())
	app := csrfApp(guard)

	token, err := guard.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	t.Run("accepts matching cookie and header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.AddCookie(&http.Cookie{Name: "csrf-token", Value: token})
		req.Header.Set("X-CSRF-Token", token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.AddCookie(&http.Cookie{Name: "csrf-token", Value: token})

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.Header.Set("X-CSRF-Token", token)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects mismatch wherever tokens differ", func(t *testing.T) {
		other, err := guard.GenerateToken()
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		// mismatch in the first byte
		early := "0" + token[1:]
		if early == token {
			early = "1" + token[1:]
		}
		// mismatch in the last byte
		late := token[:len(token)-1] + "0"
		if late == token {
			late = token[:len(token)-1] + "1"
		}

		for _, headerToken := range []string{other, early, late} {
			req := httptest.NewRequest(http.MethodPost, "/write", nil)
			req.AddCookie(&http.Cookie{Name: "csrf-token", Value: token})
			req.Header.Set("X-CSRF-Token", headerToken)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != http.StatusForbidden {
				t.Fatalf("expected 403 for mismatched token, got %d", resp.StatusCode)
			}
		}
	})

	t.Run("rejects length mismatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.AddCookie(&http.Cookie{Name: "csrf-token", Value: token})
		req.Header.Set("X-CSRF-Token", token[:10])

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})
}

func TestCSRFMiddlewareSkipsReadOnly(t *testing.T) {
	guard := newTestGuard(testCSRFConfig())
	app := csrfApp(guard)

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET must skip csrf validation, got %d", resp.StatusCode)
	}
}

func TestCSRFMiddlewareExemptPaths(t *testing.T) {
	cfg := testCSRFConfig()
	cfg.ExemptPaths = []string{"/exempt"}
	app := csrfApp(newTestGuard(cfg))

	req := httptest.NewRequest(http.MethodPost, "/exempt", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("exempt path must skip csrf validation, got %d", resp.StatusCode)
	}
}

func TestCSRFIssueMirrorsCookieAndHeader(t *testing.T) {
	guard := newTestGuard(testCSRFConfig())
	app := csrfApp(guard)

	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	headerToken := resp.Header.Get("X-CSRF-Token")
	if headerToken == "" {
		t.Fatal("expected csrf header on response")
	}

	var cookieToken string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "csrf-token" {
			cookieToken = cookie.Value
			if !cookie.HttpOnly {
				t.Error("csrf cookie must be http-only")
			}
			if cookie.MaxAge != 3600 {
				t.Errorf("expected max-age 3600, got %d", cookie.MaxAge)
			}
		}
	}
	if cookieToken == "" {
		t.Fatal("expected csrf cookie on response")
	}
	if cookieToken != headerToken {
		t.Fatalf("cookie token %q and header token %q must match", cookieToken, headerToken)
	}
}
