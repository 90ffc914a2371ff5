package models

// Wizard steps for campaign composition. The draft lives in redis for the
// duration of the wizard session and is discarded on submit or cancel.
const (
	StepClosed    = 0
	StepDetails   = 1
	StepTargeting = 2
	StepImage     = 3
)

type CampaignDraft struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      string `json:"budget"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	BriefText   string `json:"brief_text"`
	Niche       string `json:"niche"`
	Platform    string `json:"platform"`
	Reach       string `json:"reach"`
	Location    string `json:"location"`
}

// Advance moves the wizard forward one step. Details -> Targeting is guarded
// on title and budget; Targeting -> Image is not. Returns false (and leaves
// the step unchanged) when the guard fails or there is no next step.
func (d *CampaignDraft) Advance() bool {
	switch d.Step {
	case StepClosed:
		d.Step = StepDetails
		return true
	case StepDetails:
		if d.Title == "" || d.Budget == "" {
			return false
		}
		d.Step = StepTargeting
		return true
	case StepTargeting:
		d.Step = StepImage
		return true
	default:
		return false
	}
}

// Back moves one step toward Details. Field values are preserved, so no data
// is lost on back-navigation. Returns false at the first step or when closed.
func (d *CampaignDraft) Back() bool {
	switch d.Step {
	case StepTargeting:
		d.Step = StepDetails
		return true
	case StepImage:
		d.Step = StepTargeting
		return true
	default:
		return false
	}
}

// Close resets the wizard to the closed state, clearing all fields.
func (d *CampaignDraft) Close() {
	*d = CampaignDraft{}
}
