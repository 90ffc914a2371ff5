package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SocialVerifier checks a social-login access token against the provider's
// token-info endpoint and returns the profile it is bound to.
type SocialVerifier struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewSocialVerifier(baseURL string, log *zap.Logger) *SocialVerifier {
	return &SocialVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type SocialProfile struct {
	ProviderID string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Picture    string `json:"picture,omitempty"`
}

func (v *SocialVerifier) Verify(ctx context.Context, accessToken string) (*SocialProfile, error) {
	if v.baseURL == "" {
		return nil, fmt.Errorf("social auth is not configured")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	url := v.baseURL + "/tokeninfo"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social auth provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("social auth provider returned %d: %s", resp.StatusCode, string(body))
	}

	var profile SocialProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("provider token carries no email")
	}
	return &profile, nil
}
