// Package departments отдает контактную информацию отделов компании.
package departments

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/config"
	"github.com/star-housekeeping/portal/internal/http/response"
)

// Department — контактные данные одного отдела.
type Department struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ResponseTime string `json:"responseTime"`
}

type Handler struct {
	log         *slog.Logger
	departments config.Departments
}

func New(log *slog.Logger, departments config.Departments) *Handler {
	return &Handler{
		log:         log,
		departments: departments,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"departments": map[string]Department{
			"general": {
				Name:         "General Inquiries",
				Email:        h.departments.ContactEmail,
				Phone:        h.departments.ContactPhone,
				ResponseTime: "24-48 hours",
			},
			"sales": {
				Name:         "Sales & New Service",
				Email:        h.departments.SalesEmail,
				Phone:        h.departments.ContactPhone,
				ResponseTime: "2-4 hours",
			},
			"support": {
				Name:         "Customer Support",
				Email:        h.departments.SupportEmail,
				Phone:        h.departments.ContactPhone,
				ResponseTime: "2-4 hours",
			},
			"billing": {
				Name:         "Billing & Payments",
				Email:        h.departments.BillingEmail,
				Phone:        h.departments.ContactPhone,
				ResponseTime: "4-8 hours",
			},
		},
		"businessHours": map[string]string{
			"weekdays": "8:00 AM - 8:00 PM",
			"saturday": "9:00 AM - 5:00 PM",
			"sunday":   "closed",
		},
	}))
}
