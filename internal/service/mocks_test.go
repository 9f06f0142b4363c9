package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appErrors "github.com/victorydiv/fojournapp-sub001/internal/errors"
	"github.com/victorydiv/fojournapp-sub001/internal/model"
)

// In-memory fakes for the repository interfaces, shared by the intake
// and dispatcher tests.

type fakeCampaignRepo struct {
	mu          sync.Mutex
	campaigns   map[int]*model.Campaign
	nextID      int
	createErr   error
	getErr      error
	completeErr error

	// recipients created through CreateWithRecipients, by campaign id
	snapshots map[int][]model.Recipient
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: map[int]*model.Campaign{},
		snapshots: map[int][]model.Recipient{},
		nextID:    1,
	}
}

func (f *fakeCampaignRepo) CreateWithRecipients(c *model.Campaign, recipients []model.Recipient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = f.nextID
	f.nextID++
	c.Status = model.CampaignStatusPending
	c.RecipientCount = len(recipients)
	c.CreatedAt = time.Now()
	for i := range recipients {
		recipients[i].ID = i + 1
		recipients[i].CampaignID = c.ID
		recipients[i].Status = model.RecipientStatusPending
	}
	stored := *c
	f.campaigns[c.ID] = &stored
	f.snapshots[c.ID] = append([]model.Recipient{}, recipients...)
	return nil
}

func (f *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaignRepo) List(offset, limit int) ([]model.CampaignSummary, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.campaigns))
	for id := range f.campaigns {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	total := len(ids)
	if offset >= total {
		return []model.CampaignSummary{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]model.CampaignSummary, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, model.CampaignSummary{Campaign: *f.campaigns[id]})
	}
	return out, total, nil
}

func (f *fakeCampaignRepo) MarkSending(campaignID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok || c.Status != model.CampaignStatusPending {
		return false, nil
	}
	c.Status = model.CampaignStatusSending
	return true, nil
}

func (f *fakeCampaignRepo) MarkCompleted(campaignID int, errorSummary string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	c, ok := f.campaigns[campaignID]
	if !ok || c.Status != model.CampaignStatusSending {
		return nil
	}
	c.Status = model.CampaignStatusCompleted
	now := time.Now()
	c.CompletedAt = &now
	if errorSummary != "" {
		c.ErrorSummary = &errorSummary
	}
	return nil
}

func (f *fakeCampaignRepo) MarkFailed(campaignID int, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok {
		return nil
	}
	if c.Status != model.CampaignStatusPending && c.Status != model.CampaignStatusSending {
		return nil
	}
	c.Status = model.CampaignStatusFailed
	now := time.Now()
	c.CompletedAt = &now
	c.ErrorSummary = &detail
	return nil
}

func (f *fakeCampaignRepo) StatusCounts(campaignID int) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{
		model.RecipientStatusPending: 0,
		model.RecipientStatusSent:    0,
		model.RecipientStatusFailed:  0,
		model.RecipientStatusBounced: 0,
	}
	for _, rc := range f.snapshots[campaignID] {
		counts[rc.Status]++
	}
	return counts, nil
}

type fakeRecipientRepo struct {
	mu         sync.Mutex
	recipients []*model.DispatchRecipient
	listErr    error
	sentErr    map[int]error // recipient id -> error on MarkSent
}

func (f *fakeRecipientRepo) add(rc model.DispatchRecipient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, &rc)
}

func (f *fakeRecipientRepo) ListForDispatch(campaignID int) ([]model.DispatchRecipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.DispatchRecipient{}
	for _, rc := range f.recipients {
		if rc.CampaignID == campaignID {
			out = append(out, *rc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRecipientRepo) MarkSent(id int, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sentErr[id]; err != nil {
		return err
	}
	for _, rc := range f.recipients {
		if rc.ID == id {
			rc.Status = model.RecipientStatusSent
			at := sentAt
			rc.SentAt = &at
		}
	}
	return nil
}

func (f *fakeRecipientRepo) MarkFailed(id int, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rc := range f.recipients {
		if rc.ID == id {
			rc.Status = model.RecipientStatusFailed
			d := detail
			rc.ErrorDetail = &d
		}
	}
	return nil
}

func (f *fakeRecipientRepo) byID(id int) *model.DispatchRecipient {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rc := range f.recipients {
		if rc.ID == id {
			cp := *rc
			return &cp
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []model.User
}

func (f *fakeUserRepo) setEmail(userID int, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Email = email
		}
	}
}

func (f *fakeUserRepo) ListActive(category string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.User{}
	for _, u := range f.users {
		if u.Active && optedIn(u, category) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListActiveByIDs(ids []int, category string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[int]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := []model.User{}
	for _, u := range f.users {
		if u.Active && wanted[u.ID] && optedIn(u, category) {
			out = append(out, u)
		}
	}
	return out, nil
}

func optedIn(u model.User, category string) bool {
	if category == "" {
		return true
	}
	for _, c := range u.Categories {
		if c == category {
			return true
		}
	}
	return false
}

type fakeTemplateRepo struct {
	templates map[int]model.Template
}

func (f *fakeTemplateRepo) GetByID(id int) (*model.Template, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

type publishedJob struct {
	Topic   string
	Payload []byte
}

type fakeQueue struct {
	mu        sync.Mutex
	published []publishedJob
}

func (f *fakeQueue) Publish(topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedJob{Topic: topic, Payload: payload})
	return nil
}

func (f *fakeQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	return nil
}

func (f *fakeQueue) jobs() []publishedJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedJob{}, f.published...)
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error // address -> error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeMailer) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage{}, f.sent...)
}

func sendFailure(addr string) error {
	return fmt.Errorf("smtp: 550 mailbox unavailable for %s", addr)
}
