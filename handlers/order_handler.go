package handlers

import (
	"errors"

	"github.com/anjiri1684/tutor_market/services"
	"github.com/gofiber/fiber/v2"
)

type CheckoutRequest struct {
	Title         string `json:"title" validate:"max=255"`
	Description   string `json:"description" validate:"max=5000"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=card bank_transfer"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *Handler) Checkout(c *fiber.Ctx) error {
	serviceID, ok, err := paramUUID(c, "serviceId")
	if !ok {
		return err
	}
	var req CheckoutRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	studentID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	result, err := h.Orders.Checkout(c.UserContext(), services.CheckoutInput{
		StudentID:     studentID,
		ServiceID:     serviceID,
		Title:         req.Title,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": result.Order.ID,
		"success":  result.Success,
		"message":  t(c, "messages.order_placed"),
		"order":    result.Order,
		"payment":  result.Payment,
	})
}

func (h *Handler) ListMyOrders(c *fiber.Ctx) error {
	studentID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}
	orders, err := h.Orders.ListForStudent(c.UserContext(), studentID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) ListTutorOrders(c *fiber.Ctx) error {
	tutorID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}
	orders, err := h.Orders.ListForTutor(c.UserContext(), tutorID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) GetOrder(c *fiber.Ctx) error {
	orderID, ok, err := paramUUID(c, "orderId")
	if !ok {
		return err
	}
	viewerID, role, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	order, err := h.Orders.Get(c.UserContext(), viewerID, role, orderID)
	if err != nil {
		return h.respondError(c, err)
	}
	payment, err := h.Orders.Payment(c.UserContext(), viewerID, role, orderID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"order": order, "payment": payment})
}

func (h *Handler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, ok, err := paramUUID(c, "orderId")
	if !ok {
		return err
	}
	var req UpdateOrderStatusRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	actorID, role, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	order, err := h.Orders.UpdateStatus(c.UserContext(), actorID, role, orderID, req.Status)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(order)
}

func (h *Handler) SubmitReview(c *fiber.Ctx) error {
	orderID, ok, err := paramUUID(c, "orderId")
	if !ok {
		return err
	}
	var req ReviewRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	studentID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	review, err := h.Reviews.Submit(c.UserContext(), studentID, orderID, req.Rating, req.Comment)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *Handler) GetMyOrderStats(c *fiber.Ctx) error {
	studentID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}
	stats, err := h.Orders.StudentStats(c.UserContext(), studentID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *Handler) GetTutorDashboard(c *fiber.Ctx) error {
	tutorID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}
	stats, err := h.Orders.TutorStats(c.UserContext(), tutorID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(stats)
}
