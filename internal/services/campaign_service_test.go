package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Fakes shared by the service tests.

type fakeCampaignStore struct {
	createErr error
	getErr    error
	setURLErr error
	created   []*models.Campaign
	briefURL  string
	imageURL  string
}

func (f *fakeCampaignStore) Create(ctx context.Context, c *models.Campaign) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = uuid.New()
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCampaignStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, c := range f.created {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCampaignStore) List(ctx context.Context, filter repositories.CampaignFilter) ([]models.Campaign, error) {
	out := make([]models.Campaign, 0, len(f.created))
	for _, c := range f.created {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCampaignStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i, c := range f.created {
		if c.ID == id {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeCampaignStore) SetBriefFileURL(ctx context.Context, id uuid.UUID, url string) error {
	if f.setURLErr != nil {
		return f.setURLErr
	}
	f.briefURL = url
	return nil
}

func (f *fakeCampaignStore) SetCampaignImage(ctx context.Context, id uuid.UUID, url string) error {
	if f.setURLErr != nil {
		return f.setURLErr
	}
	f.imageURL = url
	return nil
}

type fakeSearcher struct {
	profiles  []models.CreatorProfile
	hasMore   bool
	err       error
	calls     int
	gotFilter repositories.CreatorFilter
}

func (f *fakeSearcher) Search(ctx context.Context, filter repositories.CreatorFilter) ([]models.CreatorProfile, bool, error) {
	f.calls++
	f.gotFilter = filter
	return f.profiles, f.hasMore, f.err
}

type fakeRecommender struct {
	page      *RecommendPage
	err       error
	calls     int
	gotFilter RecommendFilter
}

func (f *fakeRecommender) Fetch(ctx context.Context, filter RecommendFilter) (*RecommendPage, error) {
	f.calls++
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type fakeUploader struct {
	err   error
	kinds []string
}

func (f *fakeUploader) UploadCampaignFile(ctx context.Context, campaignID uuid.UUID, kind, filename, contentType string, body io.Reader) (string, error) {
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return "", f.err
	}
	return "https://files.example.com/" + kind, nil
}

type fakeAuditor struct {
	actions []string
}

func (f *fakeAuditor) Log(ctx context.Context, entry models.AuditLog) error {
	f.actions = append(f.actions, entry.Action)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		EngagementThreshold: 0.05,
		SuggestionPageSize:  5,
		FallbackLimit:       10,
	}
}

func newTestCampaignService(store *fakeCampaignStore, searcher *fakeSearcher, rec *fakeRecommender, up FileUploader, audit *fakeAuditor) *CampaignService {
	return NewCampaignService(store, searcher, rec, up, audit, testConfig(), zap.NewNop())
}

func TestDeriveFollowerRange(t *testing.T) {
	tests := []struct {
		reach   string
		wantMin int
		wantMax int
	}{
		{"1k-10k", 1000, 10000},
		{"10k-100k", 10000, 100000},
		{"100k-1M", 100000, 1000000},
		{"", 0, 0},
		{"2m+", 0, 0},
		{"10K-100K", 0, 0}, // labels are case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.reach, func(t *testing.T) {
			min, max := DeriveFollowerRange(tt.reach)
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("DeriveFollowerRange(%q) = [%d, %d], want [%d, %d]", tt.reach, min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft models.CampaignDraft
		field string
	}{
		{"missing title", models.CampaignDraft{Budget: "500", Niche: "Technology"}, "title"},
		{"missing budget", models.CampaignDraft{Title: "Launch", Niche: "Technology"}, "budget"},
		{"missing niche", models.CampaignDraft{Title: "Launch", Budget: "500"}, "niche"},
		{"non-numeric budget", models.CampaignDraft{Title: "Launch", Budget: "lots", Niche: "Technology"}, "budget"},
		{"negative budget", models.CampaignDraft{Title: "Launch", Budget: "-5", Niche: "Technology"}, "budget"},
		{"unknown niche", models.CampaignDraft{Title: "Launch", Budget: "500", Niche: "Underwater"}, "niche"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCampaignStore{}
			svc := newTestCampaignService(store, &fakeSearcher{}, &fakeRecommender{}, nil, &fakeAuditor{})

			_, err := svc.Submit(context.Background(), uuid.New(), tt.draft, nil, nil)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Submit() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.field)
			}
			if len(store.created) != 0 {
				t.Error("no campaign should be created on validation failure")
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	store := &fakeCampaignStore{}
	searcher := &fakeSearcher{profiles: []models.CreatorProfile{
		{ID: uuid.New(), Name: "Ada", FollowersCount: 25000, EngagementRate: 0.07},
	}}
	rec := &fakeRecommender{}
	audit := &fakeAuditor{}
	svc := newTestCampaignService(store, searcher, rec, nil, audit)

	businessID := uuid.New()
	result, err := svc.Submit(context.Background(), businessID, models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Technology",
		Reach:  "10k-100k",
	}, nil, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	c := result.Campaign
	if c.Budget != 5000 {
		t.Errorf("budget = %d, want 5000", c.Budget)
	}
	if c.MinFollowers != 10000 || c.MaxFollowers != 100000 {
		t.Errorf("follower range = [%d, %d], want [10000, 100000]", c.MinFollowers, c.MaxFollowers)
	}
	if len(c.NicheIDs) != 1 || c.NicheIDs[0] != 1 {
		t.Errorf("niche ids = %v, want [1]", c.NicheIDs)
	}
	if c.Brief != " " {
		t.Errorf("empty brief should be stored as a single space, got %q", c.Brief)
	}
	if c.EngagementRate != 0.05 {
		t.Errorf("engagement threshold = %f, want 0.05", c.EngagementRate)
	}

	if len(result.Recommendations) != 1 || result.Recommendations[0].Name != "Ada" {
		t.Errorf("recommendations = %+v, want the internal match", result.Recommendations)
	}
	if rec.calls != 0 {
		t.Error("external fallback should not run when the internal pool matches")
	}
	if searcher.gotFilter.ExcludeCampaignID == nil || *searcher.gotFilter.ExcludeCampaignID != c.ID {
		t.Error("internal match must exclude the new campaign's own members")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
	if len(audit.actions) == 0 || audit.actions[0] != "campaign_created" {
		t.Errorf("audit actions = %v, want campaign_created", audit.actions)
	}
}

func TestSubmitCreationFailureAborts(t *testing.T) {
	store := &fakeCampaignStore{createErr: errors.New("insert failed")}
	searcher := &fakeSearcher{}
	rec := &fakeRecommender{}
	svc := newTestCampaignService(store, searcher, rec, nil, &fakeAuditor{})

	brief := &UploadFile{Name: "brief.pdf", ContentType: "application/pdf"}
	_, err := svc.Submit(context.Background(), uuid.New(), models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Technology",
	}, brief, nil)

	var cerr *CreationError
	if !errors.As(err, &cerr) {
		t.Fatalf("Submit() error = %v, want CreationError", err)
	}
	if searcher.calls != 0 || rec.calls != 0 {
		t.Error("no recommendation work should run after a creation failure")
	}
}

func TestSubmitFallbackWhenPoolEmpty(t *testing.T) {
	store := &fakeCampaignStore{}
	searcher := &fakeSearcher{} // empty internal pool
	rec := &fakeRecommender{page: &RecommendPage{Candidates: []Candidate{
		{ID: "ext-1", Name: "Mae", FollowersCount: 40000},
	}}}
	svc := newTestCampaignService(store, searcher, rec, nil, &fakeAuditor{})

	result, err := svc.Submit(context.Background(), uuid.New(), models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Fashion",
		Reach:  "1k-10k",
	}, nil, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if rec.calls != 1 {
		t.Fatalf("fallback calls = %d, want exactly 1", rec.calls)
	}
	if rec.gotFilter.Limit != 10 {
		t.Errorf("fallback limit = %d, want 10", rec.gotFilter.Limit)
	}
	if rec.gotFilter.NicheID != 2 {
		t.Errorf("fallback niche id = %d, want 2", rec.gotFilter.NicheID)
	}
	if rec.gotFilter.MinFollowers != 1000 || rec.gotFilter.MaxFollowers != 10000 {
		t.Errorf("fallback range = [%d, %d], want [1000, 10000]", rec.gotFilter.MinFollowers, rec.gotFilter.MaxFollowers)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].ID != "ext-1" {
		t.Errorf("recommendations = %+v, want the external candidate", result.Recommendations)
	}
}

func TestSubmitRecommendationFailuresAreNonFatal(t *testing.T) {
	store := &fakeCampaignStore{}
	searcher := &fakeSearcher{err: errors.New("db down")}
	rec := &fakeRecommender{err: errors.New("provider down")}
	svc := newTestCampaignService(store, searcher, rec, nil, &fakeAuditor{})

	result, err := svc.Submit(context.Background(), uuid.New(), models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Technology",
	}, nil, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("recommendations = %+v, want empty", result.Recommendations)
	}
	if result.Recommendations == nil {
		t.Error("recommendations should be an empty slice, not nil")
	}
}

func TestSubmitUploadsAttachments(t *testing.T) {
	store := &fakeCampaignStore{}
	up := &fakeUploader{}
	svc := newTestCampaignService(store, &fakeSearcher{}, &fakeRecommender{page: &RecommendPage{}}, up, &fakeAuditor{})

	brief := &UploadFile{Name: "brief.pdf", ContentType: "application/pdf", Body: strings.NewReader("brief")}
	cover := &UploadFile{Name: "cover.png", ContentType: "image/png", Body: strings.NewReader("png")}
	result, err := svc.Submit(context.Background(), uuid.New(), models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Technology",
	}, brief, cover)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(up.kinds) != 2 || up.kinds[0] != "brief" || up.kinds[1] != "cover" {
		t.Errorf("upload kinds = %v, want [brief cover]", up.kinds)
	}
	if result.Campaign.BriefFileURL == nil || *result.Campaign.BriefFileURL != "https://files.example.com/brief" {
		t.Errorf("brief url not recorded: %v", result.Campaign.BriefFileURL)
	}
	if store.imageURL != "https://files.example.com/cover" {
		t.Errorf("cover url not persisted: %q", store.imageURL)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
}

func TestSubmitUploadFailureIsAWarning(t *testing.T) {
	store := &fakeCampaignStore{}
	svc := newTestCampaignService(store, &fakeSearcher{}, &fakeRecommender{page: &RecommendPage{}}, nil, &fakeAuditor{})

	// No uploader configured: the upload step degrades to a warning.
	brief := &UploadFile{Name: "brief.pdf", ContentType: "application/pdf"}
	cover := &UploadFile{Name: "cover.png", ContentType: "image/png"}
	result, err := svc.Submit(context.Background(), uuid.New(), models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Technology",
	}, brief, cover)
	if err != nil {
		t.Fatalf("Submit() error = %v, the campaign must survive upload failures", err)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("warnings = %v, want one per failed upload", result.Warnings)
	}
	if len(store.created) != 1 {
		t.Error("campaign should still be created")
	}
}

func TestSubmitUnpersistedUploadURLIsNotReported(t *testing.T) {
	store := &fakeCampaignStore{setURLErr: errors.New("connection reset")}
	up := &fakeUploader{}
	svc := newTestCampaignService(store, &fakeSearcher{}, &fakeRecommender{page: &RecommendPage{}}, up, &fakeAuditor{})

	// The S3 upload itself succeeds, writing the URL back fails.
	brief := &UploadFile{Name: "brief.pdf", ContentType: "application/pdf", Body: strings.NewReader("brief")}
	result, err := svc.Submit(context.Background(), uuid.New(), models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Technology",
	}, brief, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one for the failed persist", result.Warnings)
	}
	if result.Campaign.BriefFileURL != nil {
		t.Errorf("brief url = %q, must not report a URL that was never stored", *result.Campaign.BriefFileURL)
	}
}

func TestGetByIDScopedToOwner(t *testing.T) {
	store := &fakeCampaignStore{}
	svc := newTestCampaignService(store, &fakeSearcher{}, &fakeRecommender{page: &RecommendPage{}}, nil, &fakeAuditor{})

	owner := uuid.New()
	result, err := svc.Submit(context.Background(), owner, models.CampaignDraft{
		Title:  "Summer launch",
		Budget: "5000",
		Niche:  "Technology",
	}, nil, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if _, err := svc.GetByID(context.Background(), result.Campaign.ID, owner); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), result.Campaign.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign lookup error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByID(context.Background(), uuid.New(), owner); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestGetByIDPropagatesStoreErrors(t *testing.T) {
	dbErr := errors.New("connection refused")
	store := &fakeCampaignStore{getErr: dbErr}
	svc := newTestCampaignService(store, &fakeSearcher{}, &fakeRecommender{page: &RecommendPage{}}, nil, &fakeAuditor{})

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	if errors.Is(err, ErrNotFound) {
		t.Fatal("transient store errors must not surface as not-found")
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("error = %v, want the store error", err)
	}
}

func TestParseDraftDate(t *testing.T) {
	tests := []struct {
		input   string
		wantNil bool
	}{
		{"2026-06-01", false},
		{"2026-06-01T10:00:00Z", false},
		{"", true},
		{"June 1st", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			result := parseDraftDate(tt.input)
			if (result == nil) != tt.wantNil {
				t.Errorf("parseDraftDate(%q) = %v, want nil=%v", tt.input, result, tt.wantNil)
			}
		})
	}
}
