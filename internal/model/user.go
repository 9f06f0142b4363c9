package model

// User is a directory entry. Categories lists the notification
// categories the user has opted in to.
type User struct {
	ID         int      `db:"id" json:"id"`
	Email      string   `db:"email" json:"email"`
	Username   string   `db:"username" json:"username"`
	FirstName  string   `db:"first_name" json:"first_name"`
	LastName   string   `db:"last_name" json:"last_name"`
	Active     bool     `db:"active" json:"active"`
	Categories []string `db:"categories" json:"categories"`
}
