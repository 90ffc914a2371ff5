package handlers

import (
	"github.com/creator-marketplace/backend/internal/http/dto"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaReachOption struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	MinFollowers int    `json:"min_followers"`
	MaxFollowers int    `json:"max_followers"`
}

var predefinedReachOptions = []MetaReachOption{
	{ID: "1k-10k", Label: "1K – 10K followers", MinFollowers: 1000, MaxFollowers: 10000},
	{ID: "10k-100k", Label: "10K – 100K followers", MinFollowers: 10000, MaxFollowers: 100000},
	{ID: "100k-1M", Label: "100K – 1M followers", MinFollowers: 100000, MaxFollowers: 1000000},
}

var predefinedPlatforms = []string{
	"instagram",
	"tiktok",
	"youtube",
	"twitter",
}

func (h *MetaHandler) GetNiches(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: models.Niches})
}

func (h *MetaHandler) GetReachOptions(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedReachOptions})
}

func (h *MetaHandler) GetPlatforms(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedPlatforms})
}
