package handlers

import (
	"github.com/creator-marketplace/backend/internal/http/dto"
	"github.com/creator-marketplace/backend/internal/middleware"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	userRepo    *repositories.UserRepo
	creatorRepo *repositories.CreatorRepo
	validate    *validator.Validate
	log         *zap.Logger
}

func NewUserHandler(userRepo *repositories.UserRepo, creatorRepo *repositories.CreatorRepo, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userRepo:    userRepo,
		creatorRepo: creatorRepo,
		validate:    validator.New(),
		log:         log,
	}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}

	data := fiber.Map{"user": user}
	if user.Role == models.RoleCreator {
		if profile, err := h.creatorRepo.GetByUserID(c.Context(), userID); err == nil {
			data["creator_profile"] = profile
		}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: data})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	userID := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.CompanyName != nil {
		user.CompanyName = req.CompanyName
	}
	if err := h.userRepo.UpdateProfile(c.Context(), user); err != nil {
		h.log.Error("profile update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
		}
		if err := h.userRepo.UpdatePassword(c.Context(), userID, string(hash)); err != nil {
			h.log.Error("password update failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
		}
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

// UpdateCreatorProfile edits the creator-side public profile, creating it on
// first save.
func (h *UserHandler) UpdateCreatorProfile(c *fiber.Ctx) error {
	var req dto.UpdateCreatorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	userID := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil || user.Role != models.RoleCreator {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "creator account required"})
	}

	profile, err := h.creatorRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		profile = &models.CreatorProfile{UserID: userID, Name: user.Name}
		if err := h.creatorRepo.Create(c.Context(), profile); err != nil {
			h.log.Error("creator profile create failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
		}
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Image != nil {
		profile.Image = req.Image
	}
	if req.Platform != nil {
		profile.Platform = req.Platform
	}
	if req.ProfileURL != nil {
		profile.ProfileURL = req.ProfileURL
	}
	if req.Location != nil {
		profile.Location = req.Location
	}
	if req.Niches != nil {
		profile.Niches = req.Niches
	}

	if err := h.creatorRepo.Update(c.Context(), profile); err != nil {
		h.log.Error("creator profile update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *UserHandler) Ping(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if err := h.userRepo.UpdateLastActive(c.Context(), userID); err != nil {
		h.log.Error("failed to update last_active", zap.Error(err))
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
