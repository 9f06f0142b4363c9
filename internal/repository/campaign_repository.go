package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	appErrors "github.com/victorydiv/fojournapp-sub001/internal/errors"
	"github.com/victorydiv/fojournapp-sub001/internal/model"
)

type CampaignRepositoryInterface interface {
	CreateWithRecipients(c *model.Campaign, recipients []model.Recipient) error
	GetByID(id int) (*model.Campaign, error)
	List(offset, limit int) ([]model.CampaignSummary, int, error)

	// Dispatch state machine writes
	MarkSending(campaignID int) (bool, error)
	MarkCompleted(campaignID int, errorSummary string) error
	MarkFailed(campaignID int, detail string) error

	// Recipient stats for the detail view
	StatusCounts(campaignID int) (map[string]int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

// ====================== Intake ======================

// CreateWithRecipients inserts the campaign row and its full recipient
// snapshot in one transaction. Either everything commits or nothing
// does; a partial snapshot is never visible.
func (r *CampaignRepository) CreateWithRecipients(c *model.Campaign, recipients []model.Recipient) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c.Status = model.CampaignStatusPending
	c.RecipientCount = len(recipients)
	c.CreatedAt = time.Now()

	var payload []byte
	if len(c.Payload) > 0 {
		payload, err = json.Marshal(c.Payload)
		if err != nil {
			return err
		}
	}

	query := `
        INSERT INTO campaigns (subject, body, template_ref, sender_id, recipient_mode, recipient_count, status, payload, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	err = tx.QueryRow(query,
		c.Subject, c.Body, c.TemplateRef, c.SenderID,
		c.RecipientMode, c.RecipientCount, c.Status, payload, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
        INSERT INTO recipients (campaign_id, user_ref, email_address, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range recipients {
		recipients[i].CampaignID = c.ID
		recipients[i].Status = model.RecipientStatusPending
		err = stmt.QueryRow(
			recipients[i].CampaignID,
			recipients[i].UserRef,
			recipients[i].EmailAddress,
			recipients[i].Status,
		).Scan(&recipients[i].ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, subject, body, template_ref, sender_id, recipient_mode, recipient_count, status, error_summary, payload, created_at, completed_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	var payload []byte
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.Subject, &c.Body, &c.TemplateRef, &c.SenderID,
		&c.RecipientMode, &c.RecipientCount, &c.Status, &c.ErrorSummary,
		&payload, &c.CreatedAt, &c.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &c.Payload); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// ====================== History listing ======================

// List returns campaigns most-recent-first joined with the sender's
// username and the template name, plus the total row count.
func (r *CampaignRepository) List(offset, limit int) ([]model.CampaignSummary, int, error) {
	query := `
        SELECT c.id, c.subject, c.body, c.template_ref, c.sender_id, c.recipient_mode, c.recipient_count,
               c.status, c.error_summary, c.created_at, c.completed_at,
               u.username AS sender_name, t.name AS template_name
        FROM campaigns c
        LEFT JOIN users u ON u.id = c.sender_id
        LEFT JOIN templates t ON t.id = c.template_ref
        ORDER BY c.created_at DESC, c.id DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []model.CampaignSummary{}
	for rows.Next() {
		var s model.CampaignSummary
		if err := rows.Scan(
			&s.ID, &s.Subject, &s.Body, &s.TemplateRef, &s.SenderID,
			&s.RecipientMode, &s.RecipientCount, &s.Status, &s.ErrorSummary,
			&s.CreatedAt, &s.CompletedAt, &s.SenderName, &s.TemplateName,
		); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ====================== Dispatch state machine ======================

// MarkSending claims the campaign for dispatch. The status guard makes
// the transition monotonic and a duplicate dispatch trigger a no-op.
func (r *CampaignRepository) MarkSending(campaignID int) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE campaigns SET status=$1 WHERE id=$2 AND status=$3`,
		model.CampaignStatusSending, campaignID, model.CampaignStatusPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *CampaignRepository) MarkCompleted(campaignID int, errorSummary string) error {
	query := `
        UPDATE campaigns
        SET status=$1, error_summary=NULLIF($2, ''), completed_at=$3
        WHERE id=$4 AND status=$5
    `
	_, err := r.DB.Exec(query,
		model.CampaignStatusCompleted, errorSummary, time.Now(),
		campaignID, model.CampaignStatusSending,
	)
	return err
}

func (r *CampaignRepository) MarkFailed(campaignID int, detail string) error {
	query := `
        UPDATE campaigns
        SET status=$1, error_summary=$2, completed_at=$3
        WHERE id=$4 AND status IN ($5, $6)
    `
	_, err := r.DB.Exec(query,
		model.CampaignStatusFailed, detail, time.Now(), campaignID,
		model.CampaignStatusPending, model.CampaignStatusSending,
	)
	return err
}

// ====================== Stats ======================

func (r *CampaignRepository) StatusCounts(campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM recipients WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{
		model.RecipientStatusPending: 0,
		model.RecipientStatusSent:    0,
		model.RecipientStatusFailed:  0,
		model.RecipientStatusBounced: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
