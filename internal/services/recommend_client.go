package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RecommendClient queries the external recommendation provider for candidate
// creators. The provider is known to wrap the same logical list in several
// response shapes; Normalize flattens them all into Candidate records.
type RecommendClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewRecommendClient(baseURL, apiKey string, log *zap.Logger) *RecommendClient {
	return &RecommendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// Candidate is the canonical creator-candidate shape. EngagementRate is
// always a fraction in [0,1] after normalization.
type Candidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	FollowersCount int      `json:"followers_count"`
	EngagementRate float64  `json:"engagement_rate"`
	Image          string   `json:"image,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Platform       string   `json:"platform,omitempty"`
	Niches         []string `json:"niches,omitempty"`
}

// RecommendFilter is the provider-side filter set.
type RecommendFilter struct {
	MinFollowers int
	MaxFollowers int
	NicheID      int
	Platform     string
	Location     string
	Offset       int
	Limit        int
}

type RecommendPage struct {
	Candidates []Candidate
	HasMore    bool
}

// Fetch issues one paginated query. Missing credentials short-circuit
// without a network call.
func (c *RecommendClient) Fetch(ctx context.Context, f RecommendFilter) (*RecommendPage, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, fmt.Errorf("recommendation provider is not configured")
	}
	if f.Offset < 0 {
		return nil, fmt.Errorf("offset must be >= 0")
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}

	q := url.Values{}
	q.Set("offset", strconv.Itoa(f.Offset))
	q.Set("limit", strconv.Itoa(f.Limit))
	if f.MinFollowers > 0 {
		q.Set("min_followers", strconv.Itoa(f.MinFollowers))
	}
	if f.MaxFollowers > 0 {
		q.Set("max_followers", strconv.Itoa(f.MaxFollowers))
	}
	if f.NicheID > 0 {
		q.Set("niche", strconv.Itoa(f.NicheID))
	}
	if f.Platform != "" {
		q.Set("platform", f.Platform)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}

	reqURL := c.baseURL + "/recommendations?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommendation provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("recommendation provider returned %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	candidates, hasMoreFlag, err := NormalizeRecommendations(body)
	if err != nil {
		return nil, err
	}

	hasMore := len(candidates) == f.Limit
	if hasMoreFlag != nil {
		hasMore = *hasMoreFlag
	}

	return &RecommendPage{Candidates: candidates, HasMore: hasMore}, nil
}

// rawCandidate tolerates the field-level inconsistencies of the provider:
// engagement rate arrives either as a raw fraction (number) or as a
// pre-formatted percentage string.
type rawCandidate struct {
	ID             json.RawMessage `json:"id"`
	Name           string          `json:"name"`
	FollowersCount int             `json:"followers_count"`
	Followers      int             `json:"followers"` // alternate key
	EngagementRate json.RawMessage `json:"engagement_rate"`
	Image          string          `json:"image"`
	Bio            string          `json:"bio"`
	Platform       string          `json:"platform"`
	Niches         []string        `json:"niches"`
}

// NormalizeRecommendations extracts the candidate list from any of the known
// wrapper shapes: a bare array, {"recommendations":[...]}, {"items":[...]}
// or {"data":[...]}. The extraction strategies are tried in that order and
// the first array found wins; no array at all yields an empty list. The
// second return value is the provider's explicit has_more flag when present.
func NormalizeRecommendations(body []byte) ([]Candidate, *bool, error) {
	var raws []rawCandidate

	// Shape 1: bare array.
	if err := json.Unmarshal(body, &raws); err != nil {
		var wrapper struct {
			Recommendations []rawCandidate `json:"recommendations"`
			Items           []rawCandidate `json:"items"`
			Data            []rawCandidate `json:"data"`
			HasMore         *bool          `json:"has_more"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, nil, fmt.Errorf("unrecognized recommendation response: %w", err)
		}
		switch {
		case wrapper.Recommendations != nil:
			raws = wrapper.Recommendations
		case wrapper.Items != nil:
			raws = wrapper.Items
		case wrapper.Data != nil:
			raws = wrapper.Data
		}
		candidates, err := normalizeAll(raws)
		return candidates, wrapper.HasMore, err
	}

	candidates, err := normalizeAll(raws)
	return candidates, nil, err
}

func normalizeAll(raws []rawCandidate) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(raws))
	for _, r := range raws {
		followers := r.FollowersCount
		if followers == 0 {
			followers = r.Followers
		}
		er, err := ParseEngagementRate(r.EngagementRate)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{
			ID:             normalizeID(r.ID),
			Name:           r.Name,
			FollowersCount: followers,
			EngagementRate: er,
			Image:          r.Image,
			Bio:            r.Bio,
			Platform:       r.Platform,
			Niches:         r.Niches,
		})
	}
	return candidates, nil
}

// normalizeID accepts ids sent either as JSON strings or numbers.
func normalizeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// ParseEngagementRate normalizes the dual-typed engagement field into a
// fraction in [0,1]. Numbers are taken as fractions; strings are parsed
// (stripping a trailing "%") and treated as percentages when greater than 1.
func ParseEngagementRate(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("unparseable engagement rate %s", string(raw))
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable engagement rate %q", s)
	}
	if v > 1 {
		v /= 100
	}
	return v, nil
}
