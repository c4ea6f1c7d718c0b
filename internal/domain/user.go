package domain

type User struct {
	ID             string `db:"id"`
	Email          string `db:"email"`
	Name           string `db:"name"`
	Hash           string `db:"password_hash"`
	GroupID        string `db:"group_id"`
	AvatarFilename string `db:"avatar_filename"`
}
