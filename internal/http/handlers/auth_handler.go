package handlers

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/creator-marketplace/backend/internal/auth"
	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/http/dto"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo *repositories.UserRepo
	social   *auth.SocialVerifier
	cfg      *config.Config
	validate *validator.Validate
	log      *zap.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepo, social *auth.SocialVerifier, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		social:   social,
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	if _, err := h.userRepo.GetByEmail(c.Context(), req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "email is already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("password hash failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Name:         req.Name,
		CompanyName:  req.CompanyName,
	}
	if err := h.userRepo.Create(c.Context(), user); err != nil {
		h.log.Error("user create failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return h.issueToken(c, user, fiber.StatusCreated)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}

	_ = h.userRepo.UpdateLastActive(c.Context(), user.ID)
	return h.issueToken(c, user, fiber.StatusOK)
}

// SocialLogin verifies a provider access token and signs the bound account
// in, registering it on first sight.
func (h *AuthHandler) SocialLogin(c *fiber.Ctx) error {
	var req dto.SocialLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	profile, err := h.social.Verify(c.Context(), req.AccessToken)
	if err != nil {
		h.log.Debug("social token verification failed", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "social login failed"})
	}

	user, err := h.userRepo.GetByEmail(c.Context(), profile.Email)
	if err != nil {
		role := req.Role
		if role == "" {
			role = models.RoleBusiness
		}
		// Social accounts get an unusable random password; password login
		// stays closed until the user sets one explicitly.
		user = &models.User{
			Email:        profile.Email,
			PasswordHash: randomHash(),
			Role:         role,
			Name:         profile.Name,
		}
		if err := h.userRepo.Create(c.Context(), user); err != nil {
			h.log.Error("social user create failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
		}
	}

	_ = h.userRepo.UpdateLastActive(c.Context(), user.ID)
	return h.issueToken(c, user, fiber.StatusOK)
}

func (h *AuthHandler) issueToken(c *fiber.Ctx, user *models.User, status int) error {
	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("jwt generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.Status(status).JSON(dto.AuthResponse{Token: token, User: user})
}

func randomHash() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return "!" + hex.EncodeToString(b)
}
