package handlers

import (
	"extranet/internal/domain"

	"github.com/gofiber/fiber/v2"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user and avatar if present
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		data["User"] = u
		data["Avatar"] = avatarURL(u)
	}
	// Pick up the token the CSRF middleware put into Locals, falling back
	// to the cookie so hidden form fields are never empty
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else {
		data["CSRFToken"] = c.Cookies("csrf_")
	}
	return c.Render(tmpl, data)
}

func avatarURL(u *domain.User) string {
	if u.AvatarFilename != "" {
		return "/media/uploads/" + u.AvatarFilename
	}
	return "/static/default-avatar.svg"
}
