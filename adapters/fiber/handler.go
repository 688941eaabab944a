package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/jrlim/moat/core"
)

func (a *Adapter) signUp(c fiber.Ctx) error {
	var input core.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	out := a.moat.SignUp(c.Context(), input, c.IP())
	return a.render(c, out, http.StatusCreated)
}

func (a *Adapter) signIn(c fiber.Ctx) error {
	var input core.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	out := a.moat.SignIn(c.Context(), input, c.IP())
	return a.render(c, out, http.StatusOK)
}

func (a *Adapter) signOut(c fiber.Ctx) error {
	sessionID := c.Cookies(a.moat.Sessions.CookieName())
	out := a.moat.SignOut(c.Context(), sessionID)
	return a.render(c, out, http.StatusOK)
}

func (a *Adapter) session(c fiber.Ctx) error {
	sessionUser, err := a.moat.GetSession(c.Context(), c.Cookies(a.moat.Sessions.CookieName()))
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

	return c.JSON(sessionUser)
}

func (a *Adapter) googleCallback(c fiber.Ctx) error {
	out := a.moat.GoogleCallback(c.Context(), c.Query("code"), c.IP())
	return a.render(c, out, http.StatusOK)
}

// render translates a core outcome into the transport response: cookie
// directives first, then redirect, success, or failure body.
func (a *Adapter) render(c fiber.Ctx, out core.Outcome, successStatus int) error {
	if out.Session != nil {
		a.setCookie(c, out.Session.Cookie)
	}
	if out.ClearSession {
		a.setCookie(c, a.moat.Sessions.ClearCookie())
	}

	switch out.Status {
	case core.OutcomeRedirect:
		return c.Redirect().Status(http.StatusSeeOther).To(out.Target)
	case core.OutcomeSuccess:
		return c.Status(successStatus).JSON(fiber.Map{"message": out.Message})
	default:
		return c.Status(statusForFailure(out.Failure)).JSON(fiber.Map{"error": out.Message})
	}
}

func (a *Adapter) setCookie(c fiber.Ctx, spec core.CookieSpec) {
	c.Cookie(&fiber.Cookie{
		Name:     spec.Name,
		Value:    spec.Value,
		Path:     spec.Path,
		HTTPOnly: spec.HTTPOnly,
		Secure:   spec.Secure,
		SameSite: spec.SameSite,
		Expires:  spec.Expires,
	})
}

// statusForFailure maps failure kinds to HTTP status codes.
func statusForFailure(kind core.FailureKind) int {
	switch kind {
	case core.FailureValidation, core.FailureProviderMismatch:
		return http.StatusBadRequest
	case core.FailureRateLimited:
		return http.StatusTooManyRequests
	case core.FailureBadCredentials:
		return http.StatusUnauthorized
	case core.FailureConflict:
		return http.StatusConflict
	case core.FailureUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
