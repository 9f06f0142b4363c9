package repository

import (
	"database/sql"

	"github.com/victorydiv/fojournapp-sub001/internal/model"
)

type TemplateRepositoryInterface interface {
	GetByID(id int) (*model.Template, error)
}

type TemplateRepository struct {
	DB *sql.DB
}

// GetByID fetches a template by ID, returning nil when it does not exist.
func (r *TemplateRepository) GetByID(id int) (*model.Template, error) {
	query := `SELECT id, name, subject, body FROM templates WHERE id = $1`

	var t model.Template
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.Name, &t.Subject, &t.Body)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
