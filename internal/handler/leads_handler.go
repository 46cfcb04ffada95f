package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/repository"
	"github.com/octobees/leads-manager/internal/service"
	"github.com/octobees/leads-manager/internal/validation"
)

const leadNotFound = "Lead not found"

// LeadsHandler exposes the lead collection endpoints.
type LeadsHandler struct {
	service *service.LeadsService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadsService) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// List handles GET /api/leads.
func (h *LeadsHandler) List(c echo.Context) error {
	filters, err := dto.ParseLeadFilters(c.QueryParams())
	if err != nil {
		return Error(c, http.StatusUnprocessableEntity, err.Error())
	}

	leads, err := h.service.ListLeads(c.Request().Context(), filters)
	if err != nil {
		c.Logger().Errorf("list leads: %v", err)
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}
	return Success(c, http.StatusOK, leads)
}

// Get handles GET /api/leads/:id.
func (h *LeadsHandler) Get(c echo.Context) error {
	id, ok := leadID(c)
	if !ok {
		return Error(c, http.StatusUnprocessableEntity, "invalid lead id")
	}

	lead, err := h.service.GetLead(c.Request().Context(), id)
	if err != nil {
		return h.failure(c, err, "failed to fetch lead")
	}
	return Success(c, http.StatusOK, lead)
}

// Create handles POST /api/leads.
func (h *LeadsHandler) Create(c echo.Context) error {
	var req dto.LeadCreate
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusUnprocessableEntity, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, err, "failed to create lead")
	}

	lead, err := h.service.CreateLead(c.Request().Context(), req)
	if err != nil {
		return h.failure(c, err, "failed to create lead")
	}
	return Success(c, http.StatusCreated, lead)
}

// Update handles PUT /api/leads/:id.
func (h *LeadsHandler) Update(c echo.Context) error {
	id, ok := leadID(c)
	if !ok {
		return Error(c, http.StatusUnprocessableEntity, "invalid lead id")
	}

	var req dto.LeadUpdate
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusUnprocessableEntity, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return h.failure(c, err, "failed to update lead")
	}

	lead, err := h.service.UpdateLead(c.Request().Context(), id, req)
	if err != nil {
		return h.failure(c, err, "failed to update lead")
	}
	return Success(c, http.StatusOK, lead)
}

// Delete handles DELETE /api/leads/:id.
func (h *LeadsHandler) Delete(c echo.Context) error {
	id, ok := leadID(c)
	if !ok {
		return Error(c, http.StatusUnprocessableEntity, "invalid lead id")
	}

	if err := h.service.DeleteLead(c.Request().Context(), id); err != nil {
		return h.failure(c, err, "failed to delete lead")
	}
	return c.NoContent(http.StatusNoContent)
}

// Enrich handles POST /api/leads/:id/enrich.
func (h *LeadsHandler) Enrich(c echo.Context) error {
	id, ok := leadID(c)
	if !ok {
		return Error(c, http.StatusUnprocessableEntity, "invalid lead id")
	}

	lead, err := h.service.EnrichLead(c.Request().Context(), id)
	if err != nil {
		return h.failure(c, err, "failed to enrich lead")
	}
	return Success(c, http.StatusOK, lead)
}

func (h *LeadsHandler) failure(c echo.Context, err error, fallback string) error {
	var verr *validation.Error
	switch {
	case errors.Is(err, repository.ErrLeadNotFound):
		return Error(c, http.StatusNotFound, leadNotFound)
	case errors.As(err, &verr):
		return ValidationFailed(c, verr)
	default:
		c.Logger().Errorf("%s: %v", fallback, err)
		return Error(c, http.StatusInternalServerError, fallback)
	}
}

func leadID(c echo.Context) (int64, bool) {
	// non-positive ids parse and then miss as not found
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
