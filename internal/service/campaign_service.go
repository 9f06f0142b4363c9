package service

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	appErrors "github.com/victorydiv/fojournapp-sub001/internal/errors"
	"github.com/victorydiv/fojournapp-sub001/internal/model"
	"github.com/victorydiv/fojournapp-sub001/internal/queue"
	"github.com/victorydiv/fojournapp-sub001/internal/repository"
)

var validate = validator.New()

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	UserRepo     repository.UserRepositoryInterface
	TemplateRepo repository.TemplateRepositoryInterface
	Queue        queue.Queue
	Log          zerolog.Logger
}

// CreateCampaignInput is the intake contract. SenderID is filled from the
// request context by the handler, never from the request body.
type CreateCampaignInput struct {
	Subject        string            `json:"subject" validate:"required"`
	Body           string            `json:"body" validate:"required"`
	RecipientMode  string            `json:"recipientMode" validate:"required,oneof=all selected"`
	SelectedIDs    []int             `json:"selectedIds,omitempty"`
	TemplateRef    *int              `json:"templateRef,omitempty"`
	Category       string            `json:"category,omitempty"`
	DynamicPayload map[string]string `json:"dynamicPayload,omitempty"`

	SenderID *int `json:"-"`
}

type CreateCampaignResult struct {
	CampaignID     int `json:"campaignId"`
	RecipientCount int `json:"recipientCount"`
}

// DispatchJob is the queue payload scheduled after the snapshot commits.
type DispatchJob struct {
	CampaignID int `json:"campaign_id"`
}

// CreateCampaign validates the request, resolves the recipient set,
// persists the campaign plus its recipient snapshot in one transaction,
// and schedules dispatch. It returns as soon as the snapshot is durable;
// no send happens on this path.
func (s *CampaignService) CreateCampaign(in CreateCampaignInput) (*CreateCampaignResult, error) {
	if err := s.prefillFromTemplate(&in); err != nil {
		return nil, err
	}

	if err := validate.Struct(in); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, appErrors.NewValidation(errs[0].Field(), "failed "+errs[0].Tag()+" check")
		}
		return nil, err
	}

	users, err := s.resolveRecipients(in)
	if err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		Subject:       in.Subject,
		Body:          in.Body,
		TemplateRef:   in.TemplateRef,
		SenderID:      in.SenderID,
		RecipientMode: in.RecipientMode,
		Payload:       in.DynamicPayload,
	}
	recipients := make([]model.Recipient, len(users))
	for i, u := range users {
		recipients[i] = model.Recipient{
			UserRef:      u.ID,
			EmailAddress: u.Email,
		}
	}

	if err := s.CampaignRepo.CreateWithRecipients(campaign, recipients); err != nil {
		return nil, err
	}

	// Snapshot is committed; schedule the detached dispatch.
	job, _ := json.Marshal(DispatchJob{CampaignID: campaign.ID})
	if err := s.Queue.Publish(queue.TopicDispatch, job); err != nil {
		s.Log.Error().Err(err).Int("campaign_id", campaign.ID).Msg("failed to schedule dispatch")
	}

	s.Log.Info().
		Int("campaign_id", campaign.ID).
		Int("recipients", campaign.RecipientCount).
		Str("mode", campaign.RecipientMode).
		Msg("campaign created")

	return &CreateCampaignResult{
		CampaignID:     campaign.ID,
		RecipientCount: campaign.RecipientCount,
	}, nil
}

// prefillFromTemplate fills empty subject/body from the referenced
// template before validation runs, so a request carrying only a
// templateRef is still valid.
func (s *CampaignService) prefillFromTemplate(in *CreateCampaignInput) error {
	if in.TemplateRef == nil {
		return nil
	}
	tpl, err := s.TemplateRepo.GetByID(*in.TemplateRef)
	if err != nil {
		return err
	}
	if tpl == nil {
		return appErrors.NewValidation("templateRef", "template not found")
	}
	if in.Subject == "" {
		in.Subject = tpl.Subject
	}
	if in.Body == "" {
		in.Body = tpl.Body
	}
	return nil
}

func (s *CampaignService) resolveRecipients(in CreateCampaignInput) ([]model.User, error) {
	var users []model.User
	var err error

	switch in.RecipientMode {
	case model.RecipientModeAll:
		users, err = s.UserRepo.ListActive(in.Category)
	case model.RecipientModeSelected:
		ids := dedupeIDs(in.SelectedIDs)
		if len(ids) == 0 {
			return nil, appErrors.NewResolution("no recipients selected")
		}
		users, err = s.UserRepo.ListActiveByIDs(ids, in.Category)
	}
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, appErrors.NewResolution("selection matched no active users")
	}
	return users, nil
}

func dedupeIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ====================== Status & history ======================

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListCampaigns returns one page of campaign history, most recent first.
func (s *CampaignService) ListCampaigns(page, limit int) ([]model.CampaignSummary, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	campaigns, total, err := s.CampaignRepo.List(offset, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	pagination := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	return campaigns, pagination, nil
}

type CampaignDetails struct {
	model.Campaign
	Stats map[string]int `json:"stats"`
}

// GetCampaignDetails returns one campaign with its per-status recipient
// counts.
func (s *CampaignService) GetCampaignDetails(id int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	stats, err := s.CampaignRepo.StatusCounts(id)
	if err != nil {
		return nil, err
	}
	return &CampaignDetails{Campaign: *campaign, Stats: stats}, nil
}
