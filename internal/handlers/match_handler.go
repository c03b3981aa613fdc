package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/services"
)

type MatchHandler struct {
	matchRepo  repositories.MatchRepository
	userRepo   repositories.UserRepository
	offerRepo  repositories.OfferRepository
	worker     services.Worker
	matchCache services.MatchCacheService
}

func NewMatchHandler(
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	offerRepo repositories.OfferRepository,
	worker services.Worker,
	matchCache services.MatchCacheService,
) *MatchHandler {
	return &MatchHandler{
		matchRepo:  matchRepo,
		userRepo:   userRepo,
		offerRepo:  offerRepo,
		worker:     worker,
		matchCache: matchCache,
	}
}

// HandleMatch handles POST /match: queues an asynchronous ranking run and
// returns its ID immediately.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user_id format",
		})
	}

	if _, err := h.userRepo.FindByID(userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	run := &models.MatchRun{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    models.StatusQueued,
		Limit:     req.Limit,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.matchRepo.CreateRun(run); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create match run",
		})
	}

	h.worker.EnqueueRun(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.MatchRunResponse{
		ID:     run.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetRun handles GET /match/:id
func (h *MatchHandler) HandleGetRun(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid match run ID format",
		})
	}

	run, err := h.matchRepo.FindRunByID(runID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Match run not found",
		})
	}

	response := models.MatchRunResultResponse{
		ID:     run.ID.String(),
		Status: string(run.Status),
	}

	if run.Status == models.StatusCompleted {
		matches, err := h.matchRepo.FindMatchesByRun(run.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load matches",
			})
		}
		offers, err := h.resolveOffers(matches)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load offers",
			})
		}
		response.Matches = offers
	}

	if run.Status == models.StatusFailed && run.ErrorMessage != nil {
		response.ErrorMessage = run.ErrorMessage
	}

	return c.JSON(response)
}

// HandleGetUserMatches handles GET /users/:id/matches, serving from the
// cache when warm.
func (h *MatchHandler) HandleGetUserMatches(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID format",
		})
	}

	limit := c.QueryInt("limit", 20)

	if cached, ok := h.matchCache.Get(c.Context(), userID, limit); ok {
		return c.JSON(fiber.Map{"matches": cached, "cached": true})
	}

	matches, err := h.matchRepo.FindLatestMatches(userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load matches",
		})
	}

	offers, err := h.resolveOffers(matches)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load offers",
		})
	}

	h.matchCache.Set(c.Context(), userID, limit, offers)

	return c.JSON(fiber.Map{"matches": offers, "cached": false})
}

// resolveOffers joins scored matches with their offer rows, preserving the
// score ordering.
func (h *MatchHandler) resolveOffers(matches []models.Match) ([]models.MatchedOffer, error) {
	if len(matches) == 0 {
		return []models.MatchedOffer{}, nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.JobOfferID)
	}

	offers, err := h.offerRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.JobOffer, len(offers))
	for _, o := range offers {
		byID[o.ID] = o
	}

	result := make([]models.MatchedOffer, 0, len(matches))
	for _, m := range matches {
		offer, ok := byID[m.JobOfferID]
		if !ok {
			continue
		}
		result = append(result, models.MatchedOffer{
			OfferID:       offer.ID.String(),
			Title:         offer.Title,
			Company:       offer.Company,
			Location:      offer.Location,
			URL:           offer.URL,
			Score:         m.Score,
			IsRecommended: m.IsRecommended,
			PostedAt:      offer.PostedAt,
		})
	}

	return result, nil
}
