package socialstats

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ProfileStats is what can be read off a creator's public profile page.
type ProfileStats struct {
	ProfileURL string    `json:"profile_url"`
	Followers  *int      `json:"followers,omitempty"`
	Posts      *int      `json:"posts,omitempty"`
	AvgLikes   *int      `json:"avg_likes,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// EngagementRate estimates the engagement fraction from average likes over
// followers. Returns nil when either number is missing.
func (s *ProfileStats) EngagementRate() *float64 {
	if s.Followers == nil || s.AvgLikes == nil || *s.Followers == 0 {
		return nil
	}
	er := float64(*s.AvgLikes) / float64(*s.Followers)
	return &er
}

type Parser struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewParser(timeoutMS, maxRetries int, log *zap.Logger) *Parser {
	return &Parser{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

func (p *Parser) FetchAndParse(ctx context.Context, profileURL string) (*ProfileStats, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, profileURL)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, lastErr
	}

	stats := &ProfileStats{
		ProfileURL: profileURL,
		FetchedAt:  time.Now(),
	}

	// Most platforms expose counts in the og:description meta tag, e.g.
	// "12.3K Followers, 340 Following, 95 Posts".
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		parseDescription(desc, stats)
	}

	// Fallback: explicit counter elements.
	if stats.Followers == nil {
		doc.Find("[data-stat]").Each(func(i int, s *goquery.Selection) {
			label, _ := s.Attr("data-stat")
			n := parseCount(strings.TrimSpace(s.Text()))
			if n <= 0 {
				return
			}
			switch strings.ToLower(label) {
			case "followers", "subscribers":
				stats.Followers = &n
			case "posts":
				stats.Posts = &n
			case "avg_likes", "likes":
				stats.AvgLikes = &n
			}
		})
	}

	if stats.Followers == nil {
		return nil, fmt.Errorf("no follower count found at %s", profileURL)
	}
	return stats, nil
}

var descSegmentRe = regexp.MustCompile(`([\d.,\s]+[KkMm]?)\s*([A-Za-z]+)`)

func parseDescription(desc string, stats *ProfileStats) {
	for _, m := range descSegmentRe.FindAllStringSubmatch(desc, -1) {
		n := parseCount(strings.TrimSpace(m[1]))
		if n <= 0 {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "followers", "subscribers", "fans":
			v := n
			stats.Followers = &v
		case "posts", "videos":
			v := n
			stats.Posts = &v
		case "likes":
			v := n
			stats.AvgLikes = &v
		}
	}
}

// parseCount turns "1.2K", "3.4M", "12,345" or "1 234" into an int.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// Keep the leading numeric token; drop trailing words ("5.6K views").
	re := regexp.MustCompile(`^([\d.,\s]+)([KkMm]?)`)
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	numStr := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(m[1]))
	if numStr == "" {
		return 0
	}

	mult := 1.0
	switch strings.ToLower(m[2]) {
	case "k":
		mult = 1000
	case "m":
		mult = 1000000
	}

	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0
	}
	return int(f * mult)
}
