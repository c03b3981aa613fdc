package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
)

type BoardHandler struct {
	appRepo   repositories.ApplicationRepository
	userRepo  repositories.UserRepository
	offerRepo repositories.OfferRepository
}

func NewBoardHandler(
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	offerRepo repositories.OfferRepository,
) *BoardHandler {
	return &BoardHandler{
		appRepo:   appRepo,
		userRepo:  userRepo,
		offerRepo: offerRepo,
	}
}

// HandleCreateApplication handles POST /applications: adds an offer to the
// user's board in the shortlisted column.
func (h *BoardHandler) HandleCreateApplication(c *fiber.Ctx) error {
	var req models.CreateApplicationRequest

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

	offerID, err := uuid.Parse(req.JobOfferID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_offer_id format",
		})
	}

	if _, err := h.userRepo.FindByID(userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if _, err := h.offerRepo.FindByID(offerID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	existing, err := h.appRepo.FindByUserAndOffer(userID, offerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check existing application",
		})
	}
	if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Offer is already on the board for this user",
		})
	}

	app := &models.Application{
		ID:         uuid.New(),
		UserID:     userID,
		JobOfferID: offerID,
		Status:     models.StatusShortlisted,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.appRepo.Create(app); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create application",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// HandleMoveApplication handles PATCH /applications/:id: moves a card to a
// new column, enforcing the transition rules.
func (h *BoardHandler) HandleMoveApplication(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application ID format",
		})
	}

	var req models.MoveApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	next := models.ApplicationStatus(req.Status)
	if !next.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown status: " + req.Status,
		})
	}

	app, err := h.appRepo.FindByID(appID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Application not found",
		})
	}

	if err := app.Move(next); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if req.Notes != "" {
		app.Notes = req.Notes
	}
	app.UpdatedAt = time.Now()

	if err := h.appRepo.Update(app); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update application",
		})
	}

	return c.JSON(app)
}

// HandleGetBoard handles GET /users/:id/board: the user's applications
// grouped by column.
func (h *BoardHandler) HandleGetBoard(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID format",
		})
	}

	if _, err := h.userRepo.FindByID(userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	apps, err := h.appRepo.FindByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load applications",
		})
	}

	offerIDs := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		offerIDs = append(offerIDs, app.JobOfferID)
	}

	offersByID := make(map[uuid.UUID]models.JobOffer, len(offerIDs))
	if len(offerIDs) > 0 {
		offers, err := h.offerRepo.FindByIDs(offerIDs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load offers",
			})
		}
		for _, o := range offers {
			offersByID[o.ID] = o
		}
	}

	columns := make(map[string][]models.BoardCard, len(models.BoardColumns()))
	for _, col := range models.BoardColumns() {
		columns[string(col)] = []models.BoardCard{}
	}

	for _, app := range apps {
		offer := offersByID[app.JobOfferID]
		card := models.BoardCard{
			ApplicationID: app.ID.String(),
			OfferID:       app.JobOfferID.String(),
			Title:         offer.Title,
			Company:       offer.Company,
			URL:           offer.URL,
			Notes:         app.Notes,
			UpdatedAt:     app.UpdatedAt,
		}
		columns[string(app.Status)] = append(columns[string(app.Status)], card)
	}

	return c.JSON(models.BoardResponse{
		UserID:  userID.String(),
		Columns: columns,
	})
}
