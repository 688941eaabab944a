package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/jrlim/moat/core"
)

type Adapter struct {
	app  *fiber.App
	moat *core.Moat
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(m *core.Moat) error {
	a.moat = m

	a.app.Post("/sign-up", a.signUp)
	a.app.Post("/sign-in", a.signIn)
	a.app.Post("/sign-out", a.signOut)
	a.app.Get("/session", a.session)
	a.app.Get("/auth/callback/google", a.googleCallback)

	return nil
}
