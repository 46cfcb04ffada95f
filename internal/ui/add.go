package ui

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
	"github.com/octobees/leads-manager/internal/validation"
)

// LeadCreator submits new leads.
type LeadCreator interface {
	CreateLead(ctx context.Context, input dto.LeadCreate) (*entity.Lead, error)
}

// LeadForm holds the raw add-lead inputs.
type LeadForm struct {
	Name        string
	JobTitle    string
	PhoneNumber string
	Company     string
	Email       string
	Headcount   string
	Industry    string
}

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, f[field])
	}
	return strings.Join(messages, "; ")
}

// AddLeadPage validates the add-lead form and submits it.
type AddLeadPage struct {
	api    LeadCreator
	banner *Banner
	logger logrus.FieldLogger
}

// NewAddLeadPage creates the add-lead page.
func NewAddLeadPage(api LeadCreator, banner *Banner, logger logrus.FieldLogger) *AddLeadPage {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AddLeadPage{api: api, banner: banner, logger: logger}
}

// Submit validates the form and creates the lead. Field errors block the request.
// A nil lead with nil field errors means the request failed and the banner says so.
func (p *AddLeadPage) Submit(ctx context.Context, form LeadForm) (*entity.Lead, FieldErrors) {
	input, fieldErrs := form.toCreate()
	if err := validation.Default().Submission(input); err != nil {
		var verr *validation.Error
		if !errors.As(err, &verr) {
			p.logger.WithError(err).Error("validate lead form")
			p.banner.Failure("Failed to create lead")
			return nil, nil
		}
		for _, v := range verr.Violations {
			if _, exists := fieldErrs[v.Field]; !exists {
				fieldErrs[v.Field] = v.Message
			}
		}
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	lead, err := p.api.CreateLead(ctx, input)
	if err != nil {
		p.logger.WithError(err).Warn("create lead failed")
		p.banner.Failure("Failed to create lead")
		return nil, nil
	}
	return lead, nil
}

func (f LeadForm) toCreate() (dto.LeadCreate, FieldErrors) {
	errs := FieldErrors{}
	input := dto.LeadCreate{
		Name:        strings.TrimSpace(f.Name),
		Company:     strings.TrimSpace(f.Company),
		PhoneNumber: optional(f.PhoneNumber),
		Email:       optional(f.Email),
	}

	if v, ok := choose(f.JobTitle, entity.JobTitles); ok {
		input.JobTitle = v
	} else {
		errs["job_title"] = "Select a job title from the list"
	}
	if v, ok := choose(f.Industry, entity.Industries); ok {
		input.Industry = v
	} else {
		errs["industry"] = "Select an industry from the list"
	}
	if raw := strings.TrimSpace(f.Headcount); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs["headcount"] = "Headcount must be a non-negative number"
		} else {
			input.Headcount = &n
		}
	}
	return input, errs
}

// choose resolves a choice by name (case-insensitive) or by its 1-based position.
// A blank value selects nothing.
func choose(raw string, choices []string) (*string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > len(choices) {
			return nil, false
		}
		v := choices[n-1]
		return &v, true
	}
	for _, choice := range choices {
		if strings.EqualFold(choice, raw) {
			v := choice
			return &v, true
		}
	}
	return nil, false
}

func optional(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}
