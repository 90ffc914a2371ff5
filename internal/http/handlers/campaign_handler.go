package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/creator-marketplace/backend/internal/http/dto"
	"github.com/creator-marketplace/backend/internal/middleware"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/creator-marketplace/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	draftService    *services.DraftService
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, draftService *services.DraftService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		draftService:    draftService,
		log:             log,
	}
}

// Draft wizard endpoints

func (h *CampaignHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.draftService.Get(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: draft})
}

func (h *CampaignHandler) OpenDraft(c *fiber.Ctx) error {
	draft, err := h.draftService.Open(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: draft})
}

func (h *CampaignHandler) UpdateDraft(c *fiber.Ctx) error {
	var req dto.DraftFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	draft, err := h.draftService.Update(c.Context(), middleware.GetUserID(c), models.CampaignDraft{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		BriefText:   req.BriefText,
		Niche:       req.Niche,
		Platform:    req.Platform,
		Reach:       req.Reach,
		Location:    req.Location,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: draft})
}

func (h *CampaignHandler) AdvanceDraft(c *fiber.Ctx) error {
	draft, err := h.draftService.Advance(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: draft})
}

func (h *CampaignHandler) BackDraft(c *fiber.Ctx) error {
	draft, err := h.draftService.Back(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: draft})
}

func (h *CampaignHandler) DiscardDraft(c *fiber.Ctx) error {
	if err := h.draftService.Discard(c.Context(), middleware.GetUserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// CreateCampaign submits the wizard. The request is multipart so the brief
// document and cover image can ride along; form fields override the stored
// draft, which is discarded once the campaign exists.
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	draft, err := h.draftService.Get(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	overlayForm(c, draft)

	briefFile := formUpload(c, "brief_file")
	coverImage := formUpload(c, "campaign_image")
	defer closeUpload(briefFile)
	defer closeUpload(coverImage)

	result, err := h.campaignService.Submit(c.Context(), userID, *draft, uploadArg(briefFile), uploadArg(coverImage))
	if err != nil {
		// The wizard stays open on failure; the draft is kept.
		return respondErr(c, err)
	}

	if err := h.draftService.Discard(c.Context(), userID); err != nil {
		h.log.Warn("draft discard failed", zap.Error(err))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: result})
}

func overlayForm(c *fiber.Ctx, draft *models.CampaignDraft) {
	set := func(dst *string, key string) {
		if v := c.FormValue(key); v != "" {
			*dst = v
		}
	}
	set(&draft.Title, "title")
	set(&draft.Description, "description")
	set(&draft.Budget, "budget")
	set(&draft.StartDate, "start_date")
	set(&draft.EndDate, "end_date")
	set(&draft.BriefText, "brief_text")
	set(&draft.Niche, "niche")
	set(&draft.Platform, "platform")
	set(&draft.Reach, "reach")
	set(&draft.Location, "location")
}

type openedUpload struct {
	file *services.UploadFile
	src  multipart.File
}

func formUpload(c *fiber.Ctx, key string) *openedUpload {
	fh, err := c.FormFile(key)
	if err != nil {
		return nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil
	}
	return &openedUpload{
		file: &services.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        src,
		},
		src: src,
	}
}

func uploadArg(u *openedUpload) *services.UploadFile {
	if u == nil {
		return nil
	}
	return u.file
}

func closeUpload(u *openedUpload) {
	if u != nil {
		_ = u.src.Close()
	}
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	filter := repositories.CampaignFilter{Limit: 20}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}

	campaigns, err := h.campaignService.List(c.Context(), middleware.GetUserID(c), filter)
	if err != nil {
		h.log.Error("list campaigns failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	campaign, err := h.campaignService.GetByID(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	if err := h.campaignService.Delete(c.Context(), id, middleware.GetUserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// UploadBrief and UploadCover are the standalone attachment endpoints.

func (h *CampaignHandler) UploadBrief(c *fiber.Ctx) error {
	return h.upload(c, "brief")
}

func (h *CampaignHandler) UploadCover(c *fiber.Ctx) error {
	return h.upload(c, "cover")
}

func (h *CampaignHandler) upload(c *fiber.Ctx, kind string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	u := formUpload(c, "file")
	if u == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "file is required"})
	}
	defer closeUpload(u)

	url, err := h.campaignService.UploadAttachment(c.Context(), id, middleware.GetUserID(c), kind, u.file)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.UploadResponse{URL: url}})
}
