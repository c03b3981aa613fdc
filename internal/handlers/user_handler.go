package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
)

type UserHandler struct {
	userRepo repositories.UserRepository
}

func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// HandleCreateUser handles POST /users
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A valid email is required",
		})
	}

	if _, err := h.userRepo.FindByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A user with this email already exists",
		})
	}

	user := &models.User{
		ID:                uuid.New(),
		Email:             req.Email,
		Name:              strings.TrimSpace(req.Name),
		DesiredPosition:   strings.TrimSpace(req.DesiredPosition),
		SalaryExpectation: strings.TrimSpace(req.SalaryExpectation),
		Location:          strings.TrimSpace(req.Location),
		WorkModality:      strings.TrimSpace(req.WorkModality),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := h.userRepo.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUser handles GET /users/:id
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID format",
		})
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user":             user,
		"profile_complete": user.ProfileComplete(),
	})
}

// HandleUpdatePreferences handles PATCH /users/:id/preferences
func (h *UserHandler) HandleUpdatePreferences(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID format",
		})
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req models.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.DesiredPosition != nil {
		user.DesiredPosition = strings.TrimSpace(*req.DesiredPosition)
	}
	if req.SalaryExpectation != nil {
		user.SalaryExpectation = strings.TrimSpace(*req.SalaryExpectation)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.WorkModality != nil {
		user.WorkModality = strings.TrimSpace(*req.WorkModality)
	}
	user.UpdatedAt = time.Now()

	if err := h.userRepo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update preferences",
		})
	}

	return c.JSON(fiber.Map{
		"user":             user,
		"profile_complete": user.ProfileComplete(),
	})
}
