package models

import "testing"

func TestDraftAdvance(t *testing.T) {
	tests := []struct {
		name     string
		draft    CampaignDraft
		expected bool
		wantStep int
	}{
		{"closed opens to details", CampaignDraft{Step: StepClosed}, true, StepDetails},
		{"details without title stays", CampaignDraft{Step: StepDetails, Budget: "500"}, false, StepDetails},
		{"details without budget stays", CampaignDraft{Step: StepDetails, Title: "Summer launch"}, false, StepDetails},
		{"details with title and budget advances", CampaignDraft{Step: StepDetails, Title: "Summer launch", Budget: "500"}, true, StepTargeting},
		{"targeting advances unguarded", CampaignDraft{Step: StepTargeting}, true, StepImage},
		{"image is the last step", CampaignDraft{Step: StepImage}, false, StepImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft
			result := d.Advance()
			if result != tt.expected {
				t.Errorf("Advance() = %v, want %v", result, tt.expected)
			}
			if d.Step != tt.wantStep {
				t.Errorf("step = %d, want %d", d.Step, tt.wantStep)
			}
		})
	}
}

func TestDraftBack(t *testing.T) {
	tests := []struct {
		name     string
		step     int
		expected bool
		wantStep int
	}{
		{"image back to targeting", StepImage, true, StepTargeting},
		{"targeting back to details", StepTargeting, true, StepDetails},
		{"details has no previous step", StepDetails, false, StepDetails},
		{"closed has no previous step", StepClosed, false, StepClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CampaignDraft{Step: tt.step}
			result := d.Back()
			if result != tt.expected {
				t.Errorf("Back() = %v, want %v", result, tt.expected)
			}
			if d.Step != tt.wantStep {
				t.Errorf("step = %d, want %d", d.Step, tt.wantStep)
			}
		})
	}
}

func TestDraftBackPreservesFields(t *testing.T) {
	d := CampaignDraft{
		Step:     StepImage,
		Title:    "Summer launch",
		Budget:   "500",
		Niche:    "Technology",
		Reach:    "10k-100k",
		Platform: "instagram",
	}

	d.Back()
	d.Back()

	if d.Step != StepDetails {
		t.Fatalf("step = %d, want %d", d.Step, StepDetails)
	}
	if d.Title != "Summer launch" || d.Budget != "500" || d.Niche != "Technology" || d.Reach != "10k-100k" {
		t.Errorf("fields changed on back-navigation: %+v", d)
	}
}

func TestDraftClose(t *testing.T) {
	d := CampaignDraft{Step: StepTargeting, Title: "Summer launch", Budget: "500"}
	d.Close()

	if d.Step != StepClosed {
		t.Errorf("step = %d, want %d", d.Step, StepClosed)
	}
	if d.Title != "" || d.Budget != "" {
		t.Errorf("fields should be cleared on close, got %+v", d)
	}
}
