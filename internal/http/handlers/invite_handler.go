package handlers

import (
	"strconv"

	"github.com/creator-marketplace/backend/internal/http/dto"
	"github.com/creator-marketplace/backend/internal/middleware"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/creator-marketplace/backend/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InviteHandler struct {
	inviteService *services.InviteService
	creatorRepo   *repositories.CreatorRepo
	validate      *validator.Validate
	log           *zap.Logger
}

func NewInviteHandler(inviteService *services.InviteService, creatorRepo *repositories.CreatorRepo, log *zap.Logger) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		creatorRepo:   creatorRepo,
		validate:      validator.New(),
		log:           log,
	}
}

// Suggestions pages candidate creators for a campaign; members are never
// included, so the suggestion list and the active list stay disjoint.
func (h *InviteHandler) Suggestions(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	page, err := h.inviteService.Suggestions(c.Context(), campaignID, middleware.GetUserID(c), offset, limit)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: page})
}

func (h *InviteHandler) Members(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	members, err := h.inviteService.Members(c.Context(), campaignID, middleware.GetUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: members})
}

func (h *InviteHandler) AddCreator(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.AddCreatorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	creatorID, _ := uuid.Parse(req.CreatorID)

	link, err := h.inviteService.Add(c.Context(), campaignID, middleware.GetUserID(c), creatorID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: link})
}

func (h *InviteHandler) RemoveCreator(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	creatorID, err := uuid.Parse(c.Params("creatorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid creator id"})
	}

	if err := h.inviteService.Remove(c.Context(), campaignID, middleware.GetUserID(c), creatorID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *InviteHandler) InviteCreators(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.InviteCreatorsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	creatorIDs := make([]uuid.UUID, 0, len(req.CreatorIDs))
	for _, s := range req.CreatorIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid creator id " + s})
		}
		creatorIDs = append(creatorIDs, id)
	}

	invited, err := h.inviteService.Invite(c.Context(), campaignID, middleware.GetUserID(c), creatorIDs)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.InviteResponse{Invited: invited}})
}

// Creator-side endpoints

func (h *InviteHandler) MyInvites(c *fiber.Ctx) error {
	profile, err := h.creatorRepo.GetByUserID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "creator profile not found"})
	}

	invites, err := h.inviteService.MyInvites(c.Context(), profile.ID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: invites})
}

func (h *InviteHandler) RespondInvite(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.RespondInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	profile, err := h.creatorRepo.GetByUserID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "creator profile not found"})
	}

	if err := h.inviteService.Respond(c.Context(), campaignID, profile.ID, req.Status); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
