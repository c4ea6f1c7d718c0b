package handlers

import (
	"time"

	"extranet/internal/log"
	"extranet/internal/services"
	"extranet/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // set true behind HTTPS
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Identifiants invalides."})
	}
	pass := c.FormValue("password")

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Identifiants invalides."})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/home")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/login")
}
