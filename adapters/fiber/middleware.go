package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// RequireSession validates the session cookie and stores the user and
// session data in the context for downstream handlers. Invalid sessions
// get their cookie cleared before the 401.
func (a *Adapter) RequireSession(c fiber.Ctx) error {
	sessionID := c.Cookies(a.moat.Sessions.CookieName())

	sessionUser, err := a.moat.GetSession(c.Context(), sessionID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	if sessionUser == nil {
		a.setCookie(c, a.moat.Sessions.ClearCookie())
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthenticated",
		})
	}

	c.Locals("user", sessionUser.User)
	c.Locals("session", sessionUser.Session)

	return c.Next()
}
