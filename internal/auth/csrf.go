package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/config"
	"github.com/spec-kit/store-service/internal/observability"
)

// CSRFGuard implements double-submit CSRF protection: a mutating request
// must carry the same token in the session cookie and in a request header.
type CSRFGuard struct {
	cfg     config.CSRFConfig
	exempt  map[string]struct{}
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewCSRFGuard constructs the guard.
func NewCSRFGuard(cfg config.CSRFConfig, logger *zap.Logger, metrics *observability.Metrics) *CSRFGuard {
	exempt := make(map[string]struct{}, len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		exempt[p] = struct{}{}
	}
	if cfg.TokenLength <= 0 {
		cfg.TokenLength = DefaultTokenBytes
	}
	if cfg.MaxAgeSeconds <= 0 {
		cfg.MaxAgeSeconds = 3600
	}
	return &CSRFGuard{cfg: cfg, exempt: exempt, logger: logger, metrics: metrics}
}

// TokenFromRequest reads the CSRF token from the request cookie.
// Pure lookup, no side effects.
func (g *CSRFGuard) TokenFromRequest(c *fiber.Ctx) string {
	return c.Cookies(g.cfg.CookieName)
}

// GenerateToken produces a fresh CSRF token.
func (g *CSRFGuard) GenerateToken() (string, error) {
	return GenerateSecureToken(g.cfg.TokenLength)
}

// Issue sets the CSRF cookie and mirrors the token in the response header.
// When token is empty a fresh one is generated. Cookie and header carry
// the same value after this call.
func (g *CSRFGuard) Issue(c *fiber.Ctx, token string) (string, error) {
	if token == "" {
		generated, err := g.GenerateToken()
		if err != nil {
			return "", err
		}
		token = generated
	}

	c.Cookie(&fiber.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		MaxAge:   g.cfg.MaxAgeSeconds,
		HTTPOnly: true,
		Secure:   g.cfg.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	c.Set(g.cfg.HeaderName, token)
	return token, nil
}

// Validate reports whether the cookie token and header token both exist
// and are equal. Comparison is constant time so unequal tokens cannot be
// distinguished by where they differ; a length mismatch fails outright.
func (g *CSRFGuard) Validate(c *fiber.Ctx) bool {
	cookieToken := c.Cookies(g.cfg.CookieName)
	headerToken := c.Get(g.cfg.HeaderName)
	if cookieToken == "" || headerToken == "" {
		return false
	}
	if len(cookieToken) != len(headerToken) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) == 1
}

// Middleware validates state-changing requests. Read-only methods and
// exempt paths skip validation; failures are terminal 403 responses and
// are logged without the token value.
func (g *CSRFGuard) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		if _, ok := g.exempt[c.Path()]; ok {
			return c.Next()
		}

		if !g.Validate(c) {
			g.metrics.RecordCSRFFailure()
			g.logger.Warn("csrf validation failed",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
				zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			)
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"error": "CSRF token validation failed",
			})
		}
		return c.Next()
	}
}
