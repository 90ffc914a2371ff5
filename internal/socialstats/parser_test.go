package socialstats

import "testing"

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1.2K", 1200},
		{"1.5M", 1500000},
		{"123", 123},
		{"12,345", 12345},
		{"1 234", 1234},
		{"5.6K views", 5600},
		{"100K", 100000},
		{"42k", 42000},
		{"3.14k", 3140},
		{"0", 0},
		{"", 0},
		{"no number", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseCount(tt.input)
			if result != tt.expected {
				t.Errorf("parseCount(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseDescription(t *testing.T) {
	tests := []struct {
		name          string
		desc          string
		wantFollowers int
		wantPosts     int
	}{
		{"instagram style", "12.3K Followers, 340 Following, 95 Posts", 12300, 95},
		{"tiktok style", "1.2M Fans, 800 Videos", 1200000, 800},
		{"subscribers label", "45K Subscribers", 45000, 0},
		{"no counts", "Just a bio with no numbers", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &ProfileStats{}
			parseDescription(tt.desc, stats)

			followers := 0
			if stats.Followers != nil {
				followers = *stats.Followers
			}
			posts := 0
			if stats.Posts != nil {
				posts = *stats.Posts
			}
			if followers != tt.wantFollowers {
				t.Errorf("followers = %d, want %d", followers, tt.wantFollowers)
			}
			if posts != tt.wantPosts {
				t.Errorf("posts = %d, want %d", posts, tt.wantPosts)
			}
		})
	}
}

func TestEngagementRate(t *testing.T) {
	followers := 10000
	likes := 450
	stats := &ProfileStats{Followers: &followers, AvgLikes: &likes}

	er := stats.EngagementRate()
	if er == nil {
		t.Fatal("EngagementRate() = nil, want value")
	}
	if *er != 0.045 {
		t.Errorf("EngagementRate() = %f, want 0.045", *er)
	}
}

func TestEngagementRateMissingData(t *testing.T) {
	zero := 0
	likes := 450

	tests := []struct {
		name  string
		stats ProfileStats
	}{
		{"no followers", ProfileStats{AvgLikes: &likes}},
		{"no likes", ProfileStats{Followers: &likes}},
		{"zero followers", ProfileStats{Followers: &zero, AvgLikes: &likes}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if er := tt.stats.EngagementRate(); er != nil {
				t.Errorf("EngagementRate() = %f, want nil", *er)
			}
		})
	}
}
