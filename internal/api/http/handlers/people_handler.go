package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-desk/internal/api/dto"
	"github.com/spec-kit/maintenance-desk/internal/domain"
	"github.com/spec-kit/maintenance-desk/internal/repository"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

// PeopleHandler exposes the admin account-management endpoints.
type PeopleHandler struct {
	people repository.PersonRepository
}

// NewPeopleHandler constructs handler.
func NewPeopleHandler(people repository.PersonRepository) *PeopleHandler {
	return &PeopleHandler{people: people}
}

// List handles GET /api/people.
func (h *PeopleHandler) List(c *fiber.Ctx) error {
	people, err := h.people.List(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.PersonResponse, 0, len(people))
	for _, person := range people {
		out = append(out, dto.NewPersonResponse(person))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /api/people.
func (h *PeopleHandler) Create(c *fiber.Ctx) error {
	req, err := parseSavePerson(c)
	if err != nil {
		return err
	}

	person := &domain.Person{
		Name:      req.Name,
		Role:      req.Role,
		Phone:     req.Phone,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	}
	if person.AvatarURL == "" {
		person.AvatarURL = generatedAvatarURL(person.Name)
	}
	if err := h.people.Create(c.Context(), person); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPersonResponse(*person)})
}

// Update handles PUT /api/people/:id.
func (h *PeopleHandler) Update(c *fiber.Ctx) error {
	req, err := parseSavePerson(c)
	if err != nil {
		return err
	}

	person, err := h.people.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("person", nil)
		}
		return err
	}

	person.Name = req.Name
	person.Role = req.Role
	person.Phone = req.Phone
	person.Email = req.Email
	if req.AvatarURL != "" {
		person.AvatarURL = req.AvatarURL
	}
	if err := h.people.Update(c.Context(), person); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPersonResponse(*person)})
}

// Delete handles DELETE /api/people/:id.
func (h *PeopleHandler) Delete(c *fiber.Ctx) error {
	if err := h.people.Delete(c.Context(), c.Params("id")); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("person", nil)
		}
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseSavePerson(c *fiber.Ctx) (*dto.SavePersonRequest, error) {
	var req dto.SavePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Phone == "" {
		return nil, fiber.NewError(http.StatusBadRequest, "name and phone required")
	}
	if req.Role == "" {
		req.Role = domain.RoleTenant
	}
	if !domain.ValidRole(req.Role) {
		return nil, fiber.NewError(http.StatusBadRequest, "unknown role")
	}
	return &req, nil
}

func generatedAvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}
