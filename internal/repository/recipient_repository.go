package repository

import (
	"database/sql"
	"time"

	"github.com/victorydiv/fojournapp-sub001/internal/model"
)

type RecipientRepositoryInterface interface {
	ListForDispatch(campaignID int) ([]model.DispatchRecipient, error)
	MarkSent(id int, sentAt time.Time) error
	MarkFailed(id int, detail string) error
}

type RecipientRepository struct {
	DB *sql.DB
}

// ListForDispatch returns the snapshot rows in insertion order joined
// with the user attributes needed for rendering. The send address always
// comes from the captured email_address, never from the users table.
func (r *RecipientRepository) ListForDispatch(campaignID int) ([]model.DispatchRecipient, error) {
	query := `
        SELECT r.id, r.campaign_id, r.user_ref, r.email_address, r.status, r.sent_at, r.error_detail,
               COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.username, '')
        FROM recipients r
        LEFT JOIN users u ON u.id = r.user_ref
        WHERE r.campaign_id = $1
        ORDER BY r.id
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []model.DispatchRecipient{}
	for rows.Next() {
		var rc model.DispatchRecipient
		if err := rows.Scan(
			&rc.ID, &rc.CampaignID, &rc.UserRef, &rc.EmailAddress,
			&rc.Status, &rc.SentAt, &rc.ErrorDetail,
			&rc.FirstName, &rc.LastName, &rc.Username,
		); err != nil {
			return nil, err
		}
		recipients = append(recipients, rc)
	}
	return recipients, rows.Err()
}

func (r *RecipientRepository) MarkSent(id int, sentAt time.Time) error {
	query := `UPDATE recipients SET status=$1, sent_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, model.RecipientStatusSent, sentAt, id)
	return err
}

func (r *RecipientRepository) MarkFailed(id int, detail string) error {
	query := `UPDATE recipients SET status=$1, error_detail=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, model.RecipientStatusFailed, detail, id)
	return err
}

var _ RecipientRepositoryInterface = (*RecipientRepository)(nil)
