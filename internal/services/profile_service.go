package services

import (
	"errors"
	"os"
	"path/filepath"

	"extranet/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken       = errors.New("email already in use")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password too short")
)

type ProfileService struct {
	Users    *repos.UserRepo
	MediaDir string
}

func NewProfileService(users *repos.UserRepo, mediaDir string) *ProfileService {
	return &ProfileService{Users: users, MediaDir: mediaDir}
}

// UpdateIdentity changes display name and email. The email uniqueness check
// excludes the user's own row so re-submitting the same address is a no-op.
func (s *ProfileService) UpdateIdentity(userID, name, email string) error {
	taken, err := s.Users.EmailTaken(email, userID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return s.Users.UpdateProfile(userID, name, email)
}

func (s *ProfileService) ChangePassword(userID, newPwd, confirm string) error {
	if newPwd != confirm {
		return ErrPasswordMismatch
	}
	if len(newPwd) < 8 {
		return ErrPasswordTooShort
	}
	h, err := bcrypt.GenerateFromPassword([]byte(newPwd), 12)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(userID, string(h))
}

// SetAvatar records the new filename and removes the previous file
// best-effort; a stale file on disk is not worth failing the update.
func (s *ProfileService) SetAvatar(userID, oldFilename, newFilename string) error {
	if err := s.Users.UpdateAvatar(userID, newFilename); err != nil {
		return err
	}
	if oldFilename != "" {
		_ = os.Remove(filepath.Join(s.MediaDir, "uploads", oldFilename))
	}
	return nil
}
