package services

import (
	"context"
	"errors"
	"testing"

	"github.com/creator-marketplace/backend/internal/events"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeLinkStore struct {
	links   map[uuid.UUID]*models.CampaignCreator // keyed by creator id
	addErr  error
	updated map[uuid.UUID]string
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{
		links:   make(map[uuid.UUID]*models.CampaignCreator),
		updated: make(map[uuid.UUID]string),
	}
}

func (f *fakeLinkStore) Add(ctx context.Context, campaignID, creatorID uuid.UUID) (bool, error) {
	if f.addErr != nil {
		return false, f.addErr
	}
	if _, ok := f.links[creatorID]; ok {
		return false, nil
	}
	f.links[creatorID] = &models.CampaignCreator{
		ID:         uuid.New(),
		CampaignID: campaignID,
		CreatorID:  creatorID,
		Status:     models.LinkStatusInvited,
	}
	return true, nil
}

func (f *fakeLinkStore) AddMany(ctx context.Context, campaignID uuid.UUID, creatorIDs []uuid.UUID) (int, error) {
	added := 0
	for _, id := range creatorIDs {
		ok, err := f.Add(ctx, campaignID, id)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

func (f *fakeLinkStore) Remove(ctx context.Context, campaignID, creatorID uuid.UUID) (bool, error) {
	if _, ok := f.links[creatorID]; !ok {
		return false, nil
	}
	delete(f.links, creatorID)
	return true, nil
}

func (f *fakeLinkStore) GetByCampaignAndCreator(ctx context.Context, campaignID, creatorID uuid.UUID) (*models.CampaignCreator, error) {
	link, ok := f.links[creatorID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return link, nil
}

func (f *fakeLinkStore) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignCreator, error) {
	out := make([]models.CampaignCreator, 0, len(f.links))
	for _, l := range f.links {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLinkStore) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.CampaignCreator, error) {
	if l, ok := f.links[creatorID]; ok {
		return []models.CampaignCreator{*l}, nil
	}
	return nil, nil
}

func (f *fakeLinkStore) UpdateStatus(ctx context.Context, campaignID, creatorID uuid.UUID, status string) error {
	link, ok := f.links[creatorID]
	if !ok {
		return errors.New("no rows")
	}
	link.Status = status
	f.updated[creatorID] = status
	return nil
}

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, stream string, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func newTestInviteService(links *fakeLinkStore, store *fakeCampaignStore, searcher *fakeSearcher, pub *fakePublisher) *InviteService {
	return NewInviteService(links, store, searcher, &fakeAuditor{}, pub, testConfig(), zap.NewNop())
}

func seedCampaign(store *fakeCampaignStore, owner uuid.UUID) *models.Campaign {
	c := &models.Campaign{
		BusinessUserID: owner,
		Title:          "Summer launch",
		Budget:         5000,
		MinFollowers:   10000,
		MaxFollowers:   100000,
		EngagementRate: 0.05,
		NicheIDs:       []int{1},
		Status:         "active",
	}
	_ = store.Create(context.Background(), c)
	return c
}

func TestFilterAgainstMembers(t *testing.T) {
	member := uuid.New()
	candidates := []Candidate{
		{ID: member.String(), Name: "Already in"},
		{ID: "ext-1", Name: "Ada"},
		{ID: "ext-2", Name: "Mae"},
	}
	members := []models.CampaignCreator{{CreatorID: member}}

	filtered := FilterAgainstMembers(candidates, members)
	if len(filtered) != 2 {
		t.Fatalf("got %d candidates, want 2", len(filtered))
	}
	for _, c := range filtered {
		if c.ID == member.String() {
			t.Errorf("member %s should have been filtered out", c.ID)
		}
	}
}

func TestFilterAgainstMembersNoMembers(t *testing.T) {
	candidates := []Candidate{{ID: "ext-1"}, {ID: "ext-2"}}
	filtered := FilterAgainstMembers(candidates, nil)
	if len(filtered) != 2 {
		t.Errorf("got %d candidates, want all 2", len(filtered))
	}
}

func TestSuggestions(t *testing.T) {
	owner := uuid.New()
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, owner)

	searcher := &fakeSearcher{
		profiles: []models.CreatorProfile{{ID: uuid.New(), Name: "Ada", FollowersCount: 30000}},
		hasMore:  true,
	}
	svc := newTestInviteService(newFakeLinkStore(), store, searcher, &fakePublisher{})

	page, err := svc.Suggestions(context.Background(), campaign.ID, owner, 0, 0)
	if err != nil {
		t.Fatalf("Suggestions() error = %v", err)
	}

	if len(page.Creators) != 1 || !page.HasMore {
		t.Errorf("page = %+v, want one creator and has_more", page)
	}
	if searcher.gotFilter.Limit != 5 {
		t.Errorf("default page size = %d, want 5", searcher.gotFilter.Limit)
	}
	if searcher.gotFilter.ExcludeCampaignID == nil || *searcher.gotFilter.ExcludeCampaignID != campaign.ID {
		t.Error("suggestions must exclude current campaign members")
	}
	if searcher.gotFilter.Niche != "Technology" {
		t.Errorf("niche filter = %q, want Technology", searcher.gotFilter.Niche)
	}
	if searcher.gotFilter.MinEngagementRate != 0.05 {
		t.Errorf("engagement filter = %f, want 0.05", searcher.gotFilter.MinEngagementRate)
	}
}

func TestSuggestionsRejectsNegativeOffset(t *testing.T) {
	owner := uuid.New()
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, owner)
	svc := newTestInviteService(newFakeLinkStore(), store, &fakeSearcher{}, &fakePublisher{})

	_, err := svc.Suggestions(context.Background(), campaign.ID, owner, -1, 0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Suggestions() error = %v, want ValidationError", err)
	}
}

func TestSuggestionsForeignCampaign(t *testing.T) {
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, uuid.New())
	svc := newTestInviteService(newFakeLinkStore(), store, &fakeSearcher{}, &fakePublisher{})

	_, err := svc.Suggestions(context.Background(), campaign.ID, uuid.New(), 0, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Suggestions() error = %v, want ErrNotFound", err)
	}
}

func TestAddDuplicateCreator(t *testing.T) {
	owner := uuid.New()
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, owner)
	links := newFakeLinkStore()
	svc := newTestInviteService(links, store, &fakeSearcher{}, &fakePublisher{})

	creatorID := uuid.New()
	if _, err := svc.Add(context.Background(), campaign.ID, owner, creatorID); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := svc.Add(context.Background(), campaign.ID, owner, creatorID); err == nil {
		t.Error("second Add() should fail for a creator already on the campaign")
	}
}

func TestInviteEmptySelection(t *testing.T) {
	owner := uuid.New()
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, owner)
	svc := newTestInviteService(newFakeLinkStore(), store, &fakeSearcher{}, &fakePublisher{})

	_, err := svc.Invite(context.Background(), campaign.ID, owner, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Invite() error = %v, want ValidationError", err)
	}
}

func TestInviteSkipsDuplicates(t *testing.T) {
	owner := uuid.New()
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, owner)
	links := newFakeLinkStore()
	pub := &fakePublisher{}
	svc := newTestInviteService(links, store, &fakeSearcher{}, pub)

	existing := uuid.New()
	if _, err := svc.Add(context.Background(), campaign.ID, owner, existing); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	added, err := svc.Invite(context.Background(), campaign.ID, owner, []uuid.UUID{existing, uuid.New(), uuid.New()})
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2 (the duplicate is skipped silently)", added)
	}
	if links.links[existing].Status != models.LinkStatusInvited {
		t.Errorf("existing link status = %q, should be untouched", links.links[existing].Status)
	}
}

func TestRemoveCreator(t *testing.T) {
	owner := uuid.New()
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, owner)
	links := newFakeLinkStore()
	svc := newTestInviteService(links, store, &fakeSearcher{}, &fakePublisher{})

	member := uuid.New()
	if _, err := svc.Add(context.Background(), campaign.ID, owner, member); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tests := []struct {
		name       string
		business   uuid.UUID
		creator    uuid.UUID
		wantErr    error
		wantLinked bool // the seeded member's link after the call
	}{
		{"foreign business", uuid.New(), member, ErrNotFound, true},
		{"unknown creator leaves links intact", owner, uuid.New(), ErrNotFound, true},
		{"member is unlinked", owner, member, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Remove(context.Background(), campaign.ID, tt.business, tt.creator)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Remove() error = %v, want %v", err, tt.wantErr)
			}
			if _, ok := links.links[member]; ok != tt.wantLinked {
				t.Errorf("member linked = %v, want %v", ok, tt.wantLinked)
			}
		})
	}
}

func TestRespond(t *testing.T) {
	owner := uuid.New()
	store := &fakeCampaignStore{}
	campaign := seedCampaign(store, owner)
	links := newFakeLinkStore()
	pub := &fakePublisher{}
	svc := newTestInviteService(links, store, &fakeSearcher{}, pub)

	creatorID := uuid.New()
	if _, err := svc.Add(context.Background(), campaign.ID, owner, creatorID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := svc.Respond(context.Background(), campaign.ID, creatorID, models.LinkStatusAccepted); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if links.updated[creatorID] != models.LinkStatusAccepted {
		t.Errorf("status = %q, want accepted", links.updated[creatorID])
	}

	// A decided invitation cannot flip.
	if err := svc.Respond(context.Background(), campaign.ID, creatorID, models.LinkStatusDeclined); err == nil {
		t.Error("Respond() on an accepted invitation should fail")
	}
}

func TestRespondUnknownInvite(t *testing.T) {
	svc := newTestInviteService(newFakeLinkStore(), &fakeCampaignStore{}, &fakeSearcher{}, &fakePublisher{})

	err := svc.Respond(context.Background(), uuid.New(), uuid.New(), models.LinkStatusAccepted)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Respond() error = %v, want ErrNotFound", err)
	}
}
