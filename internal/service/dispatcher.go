package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/victorydiv/fojournapp-sub001/internal/mailer"
	"github.com/victorydiv/fojournapp-sub001/internal/queue"
	"github.com/victorydiv/fojournapp-sub001/internal/render"
	"github.com/victorydiv/fojournapp-sub001/internal/repository"
)

// maxSummaryReasons caps how many individual failure reasons make it
// into the campaign error summary.
const maxSummaryReasons = 5

// Dispatcher walks a campaign's recipient snapshot, rendering and
// sending one message per recipient, and converges the campaign to its
// aggregate outcome. Exactly one dispatcher run ever processes a given
// campaign; distinct campaigns may run in parallel.
type Dispatcher struct {
	CampaignRepo  repository.CampaignRepositoryInterface
	RecipientRepo repository.RecipientRepositoryInterface
	Mailer        mailer.Mailer
	Log           zerolog.Logger
}

// Dispatch runs the state machine for one campaign. A transport error
// for one recipient is recorded on that recipient only and never stops
// the loop; a store error aborts the run and fails the campaign.
func (d *Dispatcher) Dispatch(ctx context.Context, campaignID int) error {
	claimed, err := d.CampaignRepo.MarkSending(campaignID)
	if err != nil {
		return d.abort(campaignID, err)
	}
	if !claimed {
		// Already claimed by an earlier delivery of the same job.
		d.Log.Warn().Int("campaign_id", campaignID).Msg("dispatch already claimed, skipping")
		return nil
	}

	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return d.abort(campaignID, err)
	}
	recipients, err := d.RecipientRepo.ListForDispatch(campaignID)
	if err != nil {
		return d.abort(campaignID, err)
	}

	failed := 0
	reasons := []string{}

	for _, rc := range recipients {
		tctx := render.Context(rc, campaign.Payload)
		subject := render.Render(campaign.Subject, tctx)
		body := render.Render(campaign.Body, tctx)

		if sendErr := d.Mailer.Send(ctx, rc.EmailAddress, subject, body); sendErr != nil {
			failed++
			if len(reasons) < maxSummaryReasons {
				reasons = append(reasons, fmt.Sprintf("%s: %v", rc.EmailAddress, sendErr))
			}
			d.Log.Warn().
				Err(sendErr).
				Int("campaign_id", campaignID).
				Int("recipient_id", rc.ID).
				Msg("send failed")
			if err := d.RecipientRepo.MarkFailed(rc.ID, sendErr.Error()); err != nil {
				return d.abort(campaignID, err)
			}
			continue
		}

		if err := d.RecipientRepo.MarkSent(rc.ID, time.Now()); err != nil {
			return d.abort(campaignID, err)
		}
	}

	summary := ""
	if failed > 0 {
		summary = fmt.Sprintf("%d of %d sends failed: %s", failed, len(recipients), strings.Join(reasons, "; "))
	}
	if err := d.CampaignRepo.MarkCompleted(campaignID, summary); err != nil {
		return d.abort(campaignID, err)
	}

	d.Log.Info().
		Int("campaign_id", campaignID).
		Int("recipients", len(recipients)).
		Int("failed", failed).
		Msg("campaign dispatch completed")
	return nil
}

// abort handles infrastructure-level errors that are not attributable to
// a single recipient: the campaign fails and unreached recipients stay
// pending.
func (d *Dispatcher) abort(campaignID int, cause error) error {
	d.Log.Error().Err(cause).Int("campaign_id", campaignID).Msg("campaign dispatch aborted")
	if err := d.CampaignRepo.MarkFailed(campaignID, cause.Error()); err != nil {
		d.Log.Error().Err(err).Int("campaign_id", campaignID).Msg("failed to record campaign failure")
	}
	return cause
}

// StartDispatchSubscriber wires the dispatcher to the queue. Used by the
// server in in-process mode and by the standalone worker over AMQP.
func StartDispatchSubscriber(q queue.Queue, d *Dispatcher, log zerolog.Logger) error {
	return q.Subscribe(queue.TopicDispatch, func(payload []byte) error {
		var job DispatchJob
		if err := json.Unmarshal(payload, &job); err != nil {
			log.Error().Err(err).Msg("invalid dispatch job payload")
			return nil
		}
		return d.Dispatch(context.Background(), job.CampaignID)
	})
}
