package handlers

import (
	"errors"
	"path/filepath"

	"extranet/internal/domain"
	applog "extranet/internal/log"
	"extranet/internal/services"
	"extranet/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HomeHandler struct{}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", nil)
}

type ProfileHandler struct {
	Profile  *services.ProfileService
	MediaDir string
}

func (h *ProfileHandler) Form(c *fiber.Ctx) error {
	return render(c, "profile", nil)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return render(c, "profile", fiber.Map{"Err": "Nom invalide."})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return render(c, "profile", fiber.Map{"Err": "Email invalide."})
	}

	if err := h.Profile.UpdateIdentity(u.ID, name, email); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return render(c, "profile", fiber.Map{"Err": "Cet email est déjà utilisé."})
		}
		applog.Error(c, "profile.update.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Une erreur est survenue."})
	}
	u.Name, u.Email = name, email

	// optional password change
	newPwd := c.FormValue("new_password")
	confirm := c.FormValue("new_password_confirm")
	if newPwd != "" || confirm != "" {
		if err := h.Profile.ChangePassword(u.ID, newPwd, confirm); err != nil {
			switch {
			case errors.Is(err, services.ErrPasswordMismatch):
				return render(c, "profile", fiber.Map{"Err": "Les mots de passe ne correspondent pas."})
			case errors.Is(err, services.ErrPasswordTooShort):
				return render(c, "profile", fiber.Map{"Err": "Mot de passe trop court (min 8)."})
			default:
				applog.Error(c, "profile.password.fail", err, nil)
				return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Une erreur est survenue."})
			}
		}
	}

	// optional avatar upload
	if fh, err := c.FormFile("avatar"); err == nil && fh != nil && fh.Filename != "" {
		if _, ok := validate.AvatarExt(fh.Filename); !ok {
			return render(c, "profile", fiber.Map{"Err": "Format avatar non supporté (png/jpg/jpeg/webp)."})
		}
		fname := uuid.NewString() + "_" + validate.SafeFilename(fh.Filename)
		if err := c.SaveFile(fh, filepath.Join(h.MediaDir, "uploads", fname)); err != nil {
			applog.Error(c, "profile.avatar.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Une erreur est survenue."})
		}
		if err := h.Profile.SetAvatar(u.ID, u.AvatarFilename, fname); err != nil {
			applog.Error(c, "profile.avatar.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Une erreur est survenue."})
		}
		u.AvatarFilename = fname
	}

	applog.Audit(c, "profile.update", map[string]any{"user": u.ID})
	return render(c, "profile", fiber.Map{"Ok": "Profil mis à jour."})
}
