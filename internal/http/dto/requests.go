package dto

type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        string  `json:"role" validate:"required,oneof=business creator"`
	Name        string  `json:"name" validate:"required"`
	CompanyName *string `json:"company_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SocialLoginRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=business creator"`
}

type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type UpdateCreatorProfileRequest struct {
	Name       *string  `json:"name,omitempty"`
	Bio        *string  `json:"bio,omitempty"`
	Image      *string  `json:"image,omitempty"`
	Platform   *string  `json:"platform,omitempty"`
	ProfileURL *string  `json:"profile_url,omitempty" validate:"omitempty,url"`
	Location   *string  `json:"location,omitempty"`
	Niches     []string `json:"niches,omitempty"`
}

// DraftFieldsRequest carries partial wizard-field updates; empty fields are
// left untouched server-side.
type DraftFieldsRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Budget      string `json:"budget,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	BriefText   string `json:"brief_text,omitempty"`
	Niche       string `json:"niche,omitempty"`
	Platform    string `json:"platform,omitempty"`
	Reach       string `json:"reach,omitempty"`
	Location    string `json:"location,omitempty"`
}

type AddCreatorRequest struct {
	CreatorID string `json:"creator_id" validate:"required,uuid"`
}

type InviteCreatorsRequest struct {
	CreatorIDs []string `json:"creator_ids" validate:"required,min=1,dive,uuid"`
}

type RespondInviteRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

type StartConversationRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type SendMessageRequest struct {
	Text      string  `json:"text" validate:"required"`
	ClientRef *string `json:"client_ref,omitempty"`
}

type VerifyPaymentRequest struct {
	Reference  string  `json:"reference" validate:"required"`
	CampaignID *string `json:"campaign_id,omitempty" validate:"omitempty,uuid"`
}
