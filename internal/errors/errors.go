package appErrors

import "fmt"

// ValidationError reports a missing or malformed request field. It is
// surfaced synchronously as a client error; no state is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ResolutionError reports that a recipient selection resolved to an
// empty set. Surfaced synchronously; no campaign or recipient rows exist
// when this is returned.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return "recipient resolution failed: " + e.Reason
}

func NewResolution(reason string) error {
	return &ResolutionError{Reason: reason}
}

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}
