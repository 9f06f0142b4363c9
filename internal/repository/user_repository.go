package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/victorydiv/fojournapp-sub001/internal/model"
)

// UserRepositoryInterface is the directory boundary: it answers "who is
// addressable right now", optionally narrowed to a notification
// category opt-in.
type UserRepositoryInterface interface {
	ListActive(category string) ([]model.User, error)
	ListActiveByIDs(ids []int, category string) ([]model.User, error)
}

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) ListActive(category string) ([]model.User, error) {
	query := `
        SELECT id, email, username, first_name, last_name, active, categories
        FROM users
        WHERE active = TRUE
    `
	args := []interface{}{}
	if category != "" {
		query += ` AND $1 = ANY(categories)`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	return r.queryUsers(query, args...)
}

func (r *UserRepository) ListActiveByIDs(ids []int, category string) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	query := `
        SELECT id, email, username, first_name, last_name, active, categories
        FROM users
        WHERE active = TRUE AND id = ANY($1)
    `
	args := []interface{}{pq.Array(ids)}
	if category != "" {
		query += ` AND $2 = ANY(categories)`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	return r.queryUsers(query, args...)
}

func (r *UserRepository) queryUsers(query string, args ...interface{}) ([]model.User, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.Active, pq.Array(&u.Categories),
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
