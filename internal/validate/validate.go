package validate

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reFile  = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 255 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (group/user/item ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Password enforces the minimum length used at account setup.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72 // bcrypt input cap
}

// AvatarExt reports whether the upload filename carries an allowed image extension.
func AvatarExt(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "png", "jpg", "jpeg", "webp":
		return ext, true
	}
	return ext, false
}

// SafeFilename strips path components and anything outside a conservative charset.
func SafeFilename(s string) string {
	s = filepath.Base(s)
	s = reFile.ReplaceAllString(s, "_")
	if s == "." || s == ".." || s == "" {
		return "upload"
	}
	return s
}
