package models

// Niche is a content category a creator can be matched on.
type Niche struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Static lookup table; ids are shared with the recommendation provider.
var Niches = []Niche{
	{1, "Technology"},
	{2, "Fashion"},
	{3, "Beauty"},
	{4, "Fitness"},
	{5, "Food"},
	{6, "Travel"},
	{7, "Gaming"},
	{8, "Lifestyle"},
	{9, "Education"},
	{10, "Music"},
}

// NicheID maps a niche label to its numeric id. Returns 0 when unknown.
func NicheID(label string) int {
	for _, n := range Niches {
		if n.Label == label {
			return n.ID
		}
	}
	return 0
}
