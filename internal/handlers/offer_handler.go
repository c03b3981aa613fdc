package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
)

type OfferHandler struct {
	offerRepo repositories.OfferRepository
}

func NewOfferHandler(offerRepo repositories.OfferRepository) *OfferHandler {
	return &OfferHandler{offerRepo: offerRepo}
}

// HandleListOffers handles GET /offers with limit/offset paging.
func (h *OfferHandler) HandleListOffers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	offers, err := h.offerRepo.ListActive(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load offers",
		})
	}

	return c.JSON(fiber.Map{
		"offers": offers,
		"count":  len(offers),
		"limit":  limit,
		"offset": offset,
	})
}

// HandleGetOffer handles GET /offers/:id
func (h *OfferHandler) HandleGetOffer(c *fiber.Ctx) error {
	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid offer ID format",
		})
	}

	offer, err := h.offerRepo.FindByID(offerID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	return c.JSON(offer)
}
