package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-manager/internal/service"
)

// ImportHandler handles CSV ingestion of leads.
type ImportHandler struct {
	leads *service.LeadsService
}

// NewImportHandler wires a handler backed by the leads service.
func NewImportHandler(leads *service.LeadsService) *ImportHandler {
	return &ImportHandler{leads: leads}
}

// UploadCSV handles POST /api/leads/import requests.
func (h *ImportHandler) UploadCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusUnprocessableEntity, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusUnprocessableEntity, "unable to open file")
	}
	defer file.Close()

	summary, err := h.leads.ImportLeadsCSV(c.Request().Context(), file)
	if err != nil {
		var validationErr service.CSVValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusUnprocessableEntity, validationErr.Error())
		}
		c.Logger().Errorf("import leads: %v", err)
		return Error(c, http.StatusInternalServerError, "failed to process csv")
	}

	return Success(c, http.StatusOK, summary)
}
