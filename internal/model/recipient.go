package model

import "time"

// Per-recipient delivery statuses. A recipient row is written exactly
// once by the dispatcher; "bounced" belongs to the status domain but is
// only ever set by delivery-receipt processing, which lives outside this
// service.
const (
	RecipientStatusPending = "pending"
	RecipientStatusSent    = "sent"
	RecipientStatusFailed  = "failed"
	RecipientStatusBounced = "bounced"
)

// Recipient is one immutable per-address send record owned by a campaign.
// EmailAddress is captured at snapshot time and never re-resolved.
type Recipient struct {
	ID           int        `db:"id" json:"id"`
	CampaignID   int        `db:"campaign_id" json:"campaignId"`
	UserRef      int        `db:"user_ref" json:"userRef"`
	EmailAddress string     `db:"email_address" json:"emailAddress"`
	Status       string     `db:"status" json:"status"`
	SentAt       *time.Time `db:"sent_at" json:"sentAt,omitempty"`
	ErrorDetail  *string    `db:"error_detail" json:"errorDetail,omitempty"`
}

// DispatchRecipient is a recipient row joined with the user attributes
// the renderer needs. Only the email address is frozen in the snapshot;
// display names are read live at dispatch time.
type DispatchRecipient struct {
	Recipient
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Username  string `db:"username" json:"username"`
}
