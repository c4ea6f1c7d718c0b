package repos

import (
	"extranet/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,group_id,COALESCE(avatar_filename,'') AS avatar_filename`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) EmailTaken(email, excludeUserID string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?) AND id<>?`, email, excludeUserID)
	return n > 0, err
}

func (r *UserRepo) UpdateProfile(userID, name, email string) error {
	_, err := r.DB.Exec(`UPDATE users SET name=?, email=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		name, email, userID)
	return err
}

func (r *UserRepo) UpdatePassword(userID, hash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, hash, userID)
	return err
}

func (r *UserRepo) UpdateAvatar(userID, filename string) error {
	_, err := r.DB.Exec(`UPDATE users SET avatar_filename=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, filename, userID)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.group_id,COALESCE(u.avatar_filename,'') AS avatar_filename
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// TouchSession refreshes last_seen so stale sessions can be told apart.
func (r *UserRepo) TouchSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
