package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/gofiber/fiber/v2"
)

type AdminServiceRow struct {
	models.Service
	TutorName string `json:"tutor_name"`
}

type AdminOrderRow struct {
	models.Order
	ServiceTitle string `json:"service_title"`
	StudentName  string `json:"student_name"`
}

func (h *Handler) AdminListUsers(c *fiber.Ctx) error {
	users, err := h.Admin.Users(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) AdminListServices(c *fiber.Ctx) error {
	list, err := h.Admin.Services(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}

	rows := make([]AdminServiceRow, 0, len(list))
	for _, s := range list {
		row := AdminServiceRow{Service: s}
		if s.Tutor != nil {
			row.TutorName = s.Tutor.FullName
		}
		rows = append(rows, row)
	}
	return c.JSON(rows)
}

// AdminListOrders returns the orders table, or a CSV export of it when
// format=csv is requested.
func (h *Handler) AdminListOrders(c *fiber.Ctx) error {
	orders, err := h.Admin.Orders(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}

	rows := make([]AdminOrderRow, 0, len(orders))
	for _, o := range orders {
		row := AdminOrderRow{Order: o}
		if o.Service != nil {
			row.ServiceTitle = o.Service.Title
		}
		if o.Student != nil {
			row.StudentName = o.Student.FullName
		}
		rows = append(rows, row)
	}

	if c.Query("format") != "csv" {
		return c.JSON(rows)
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)
	headers := []string{"Reference", "Date", "Student Name", "Service", "Price", "Status", "Delivery Date"}
	if err := w.Write(headers); err != nil {
		return h.respondError(c, err)
	}
	for _, r := range rows {
		record := []string{
			r.Reference,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.StudentName,
			r.ServiceTitle,
			r.Price.StringFixed(2),
			r.Status,
			r.DeliveryDate.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return h.respondError(c, err)
		}
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"orders_%s.csv\"", time.Now().Format("2006-01-02")))
	return c.Send(b.Bytes())
}
