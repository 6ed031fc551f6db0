package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName is the cookie conveying the session token.
const DefaultCookieName = "token"

// SessionCookie transports the signed token between client and server.
// The cookie is never script-readable and never sent cross-site; Secure is
// added when running in a production configuration.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// NewSessionCookie builds the carrier.
func NewSessionCookie(name string, secure bool, maxAge time.Duration) *SessionCookie {
	if name == "" {
		name = DefaultCookieName
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &SessionCookie{Name: name, Secure: secure, MaxAge: maxAge}
}

// Attach sets the token cookie on the response.
func (sc *SessionCookie) Attach(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    token,
		Expires:  time.Now().Add(sc.MaxAge),
		MaxAge:   int(sc.MaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   sc.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// Clear replaces the cookie with an empty value expiring in the past,
// instructing the client to discard its copy. Tokens are stateless, so a
// previously issued token stays verifiable until its own expiry; logout
// only removes the client's copy.
func (sc *SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   sc.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// Extract reads the token from the incoming request.
func (sc *SessionCookie) Extract(c *fiber.Ctx) (string, bool) {
	val := c.Cookies(sc.Name)
	if val == "" {
		return "", false
	}
	return val, true
}
