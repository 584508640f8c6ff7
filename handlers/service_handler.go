package handlers

import (
	"github.com/anjiri1684/tutor_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateServiceRequest struct {
	Title        string          `json:"title" validate:"required,max=255"`
	Description  string          `json:"description" validate:"required"`
	Category     string          `json:"category" validate:"required,oneof=essay_writing research_papers homework tutoring exam_prep editing"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days" validate:"required,gte=1,lte=365"`
	ImageURL     *string         `json:"image_url" validate:"omitempty,url"`
}

func (h *Handler) BrowseServices(c *fiber.Ctx) error {
	list, err := h.Listings.Browse(c.UserContext(), services.BrowseFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		SortBy:   c.Query("sort"),
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(list)
}

// GetService returns the listing with up to three related ones.
func (h *Handler) GetService(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "serviceId")
	if !ok {
		return err
	}

	service, err := h.Listings.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	related, err := h.Listings.Related(c.UserContext(), service, services.RelatedLimit)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"service": service, "related": related})
}

func (h *Handler) GetServiceReviews(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "serviceId")
	if !ok {
		return err
	}
	reviews, err := h.Reviews.ListForService(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(reviews)
}

func (h *Handler) ListMyServices(c *fiber.Ctx) error {
	tutorID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}
	list, err := h.Listings.ListForTutor(c.UserContext(), tutorID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) CreateService(c *fiber.Ctx) error {
	var req CreateServiceRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	tutorID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	service, err := h.Listings.Create(c.UserContext(), tutorID, services.ServiceInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// ToggleServiceStatus serves both the tutor and the admin route; the service
// layer decides who may flip which listing.
func (h *Handler) ToggleServiceStatus(c *fiber.Ctx) error {
	id, ok, err := paramUUID(c, "serviceId")
	if !ok {
		return err
	}
	actorID, role, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	service, err := h.Listings.ToggleActive(c.UserContext(), actorID, role, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(service)
}
