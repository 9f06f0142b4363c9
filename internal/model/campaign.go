package model

import "time"

// Campaign lifecycle statuses. Transitions are monotonic:
// pending -> sending -> completed, with a pending|sending -> failed
// abort edge reserved for infrastructure errors.
const (
	CampaignStatusPending   = "pending"
	CampaignStatusSending   = "sending"
	CampaignStatusCompleted = "completed"
	CampaignStatusFailed    = "failed"
)

// Recipient selection modes accepted at intake.
const (
	RecipientModeAll      = "all"
	RecipientModeSelected = "selected"
)

type Campaign struct {
	ID             int               `db:"id" json:"id"`
	Subject        string            `db:"subject" json:"subject"`
	Body           string            `db:"body" json:"body"`
	TemplateRef    *int              `db:"template_ref" json:"templateRef,omitempty"`
	SenderID       *int              `db:"sender_id" json:"senderId,omitempty"`
	RecipientMode  string            `db:"recipient_mode" json:"recipientMode"`
	RecipientCount int               `db:"recipient_count" json:"recipientCount"`
	Status         string            `db:"status" json:"status"`
	ErrorSummary   *string           `db:"error_summary" json:"errorSummary,omitempty"`
	Payload        map[string]string `db:"payload" json:"payload,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"createdAt"`
	CompletedAt    *time.Time        `db:"completed_at" json:"completedAt,omitempty"`
}

// CampaignSummary is a campaign row joined with display fields for the
// history listing.
type CampaignSummary struct {
	Campaign
	SenderName   *string `db:"sender_name" json:"senderName,omitempty"`
	TemplateName *string `db:"template_name" json:"templateName,omitempty"`
}
