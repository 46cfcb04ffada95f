package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/controller"
	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
	"github.com/octobees/leads-manager/internal/validation"
)

// AllIndustries is the industry choice that disables the industry filter.
const AllIndustries = "all"

const emptyCell = "-"

// LeadsAPI is the subset of the API client used by the views.
type LeadsAPI interface {
	GetLead(ctx context.Context, id int64) (*entity.Lead, error)
	CreateLead(ctx context.Context, input dto.LeadCreate) (*entity.Lead, error)
	UpdateLead(ctx context.Context, id int64, input dto.LeadUpdate) (*entity.Lead, error)
	DeleteLead(ctx context.Context, id int64) error
	EnrichLead(ctx context.Context, id int64) (*entity.Lead, error)
}

// ListPage renders the lead table and runs the per-lead actions.
type ListPage struct {
	ctrl   *controller.LeadsController
	api    LeadsAPI
	banner *Banner
	logger logrus.FieldLogger
}

// NewListPage creates the list page.
func NewListPage(ctrl *controller.LeadsController, api LeadsAPI, banner *Banner, logger logrus.FieldLogger) *ListPage {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ListPage{ctrl: ctrl, api: api, banner: banner, logger: logger}
}

// Render writes the page for state s.
func (p *ListPage) Render(w io.Writer, s controller.State) {
	if s.Loading {
		fmt.Fprintln(w, "Loading leads...")
		return
	}
	if s.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Error)
		fmt.Fprintln(w, "Type 'refresh' to try again.")
		return
	}

	fmt.Fprintln(w, "Leads")
	if banner := p.banner.String(); banner != "" {
		fmt.Fprintln(w, banner)
	}
	fmt.Fprintf(w, "Filters: industry=%s min=%s max=%s\n",
		industryLabel(s.Filters.Industry), intCell(s.Filters.HeadcountMin), intCell(s.Filters.HeadcountMax))
	fmt.Fprintf(w, "Industries: %s\n", strings.Join(IndustryOptions(s.Leads), ", "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tJob Title\tPhone Number\tCompany\tEmail\tHeadcount\tIndustry")
	for _, lead := range s.Leads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			lead.ID, lead.Name, cell(lead.JobTitle), cell(lead.PhoneNumber), lead.Company,
			cell(lead.Email), intCell(lead.Headcount), cell(lead.Industry))
	}
	tw.Flush()

	if len(s.Leads) == 0 {
		fmt.Fprintln(w, "No leads found. Add your first lead to get started.")
		return
	}
	fmt.Fprintf(w, "Showing %d lead(s)\n", len(s.Leads))
}

// Filter parses the filter inputs and applies them.
func (p *ListPage) Filter(ctx context.Context, industry, minHeadcount, maxHeadcount string) error {
	filters, err := ParseFilterInput(industry, minHeadcount, maxHeadcount)
	if err != nil {
		return err
	}
	p.ctrl.ApplyFilters(ctx, filters)
	return nil
}

// ClearFilters resets every filter input.
func (p *ListPage) ClearFilters(ctx context.Context) {
	p.ctrl.ClearFilters(ctx)
}

// Refresh reloads the table with the current filters.
func (p *ListPage) Refresh(ctx context.Context) {
	p.ctrl.Refresh(ctx)
}

// Enrich triggers enrichment of a lead and reloads the table on success.
func (p *ListPage) Enrich(ctx context.Context, id int64) {
	lead, err := p.api.EnrichLead(ctx, id)
	if err != nil {
		p.logger.WithError(err).WithField("lead_id", id).Warn("enrich lead failed")
		p.banner.Failure("Failed to enrich lead")
		return
	}
	p.banner.Success(fmt.Sprintf("Lead %s enriched successfully!", lead.Name))
	p.ctrl.Refresh(ctx)
}

// Delete removes a lead and reloads the table on success. Confirmation is the caller's job.
func (p *ListPage) Delete(ctx context.Context, id int64) {
	name := p.LeadName(id)
	if err := p.api.DeleteLead(ctx, id); err != nil {
		p.logger.WithError(err).WithField("lead_id", id).Warn("delete lead failed")
		p.banner.Failure("Failed to delete lead")
		return
	}
	p.banner.Success(fmt.Sprintf("Lead %s deleted successfully!", name))
	p.ctrl.Refresh(ctx)
}

// Update validates and applies a partial update, then reloads the table.
// Only input problems are returned; request failures go to the banner.
func (p *ListPage) Update(ctx context.Context, id int64, input dto.LeadUpdate) error {
	if input.IsEmpty() {
		return errors.New("nothing to update")
	}
	if err := validation.Default().Struct(input); err != nil {
		return err
	}
	lead, err := p.api.UpdateLead(ctx, id, input)
	if err != nil {
		p.logger.WithError(err).WithField("lead_id", id).Warn("update lead failed")
		p.banner.Failure("Failed to update lead")
		return nil
	}
	p.banner.Success(fmt.Sprintf("Lead %s updated successfully!", lead.Name))
	p.ctrl.Refresh(ctx)
	return nil
}

// Show writes the details of a single lead.
func (p *ListPage) Show(ctx context.Context, w io.Writer, id int64) {
	lead, err := p.api.GetLead(ctx, id)
	if err != nil {
		p.logger.WithError(err).WithField("lead_id", id).Warn("get lead failed")
		p.banner.Failure("Failed to load lead")
		fmt.Fprintln(w, p.banner.String())
		return
	}
	RenderLead(w, *lead)
}

// LeadName returns the display name of a loaded lead, falling back to its id.
func (p *ListPage) LeadName(id int64) string {
	for _, lead := range p.ctrl.Snapshot().Leads {
		if lead.ID == id {
			return lead.Name
		}
	}
	return "#" + strconv.FormatInt(id, 10)
}

// RenderLead writes one lead as a two-column listing.
func RenderLead(w io.Writer, lead entity.Lead) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", lead.ID)
	fmt.Fprintf(tw, "Name\t%s\n", lead.Name)
	fmt.Fprintf(tw, "Job Title\t%s\n", cell(lead.JobTitle))
	fmt.Fprintf(tw, "Phone Number\t%s\n", cell(lead.PhoneNumber))
	fmt.Fprintf(tw, "Company\t%s\n", lead.Company)
	fmt.Fprintf(tw, "Email\t%s\n", cell(lead.Email))
	fmt.Fprintf(tw, "Headcount\t%s\n", intCell(lead.Headcount))
	fmt.Fprintf(tw, "Industry\t%s\n", cell(lead.Industry))
	fmt.Fprintf(tw, "Created At\t%s\n", lead.CreatedAt.Format(time.RFC3339))
	updated := emptyCell
	if lead.UpdatedAt != nil {
		updated = lead.UpdatedAt.Format(time.RFC3339)
	}
	fmt.Fprintf(tw, "Updated At\t%s\n", updated)
	tw.Flush()
}

// IndustryOptions lists the industry filter choices: "all" followed by the distinct
// industries of the loaded leads in alphabetical order.
func IndustryOptions(leads []entity.Lead) []string {
	seen := make(map[string]struct{})
	var industries []string
	for _, lead := range leads {
		if !lead.HasIndustry() {
			continue
		}
		if _, ok := seen[*lead.Industry]; ok {
			continue
		}
		seen[*lead.Industry] = struct{}{}
		industries = append(industries, *lead.Industry)
	}
	sort.Strings(industries)
	return append([]string{AllIndustries}, industries...)
}

// ParseFilterInput converts raw filter inputs. Blank inputs and "all" mean no constraint.
func ParseFilterInput(industry, minHeadcount, maxHeadcount string) (dto.LeadFilters, error) {
	var filters dto.LeadFilters
	industry = strings.TrimSpace(industry)
	if !strings.EqualFold(industry, AllIndustries) {
		filters.Industry = industry
	}

	var err error
	if filters.HeadcountMin, err = parseHeadcount(minHeadcount); err != nil {
		return dto.LeadFilters{}, errors.New("Min headcount must be a non-negative number")
	}
	if filters.HeadcountMax, err = parseHeadcount(maxHeadcount); err != nil {
		return dto.LeadFilters{}, errors.New("Max headcount must be a non-negative number")
	}
	return filters, nil
}

func parseHeadcount(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("negative headcount %d", v)
	}
	return &v, nil
}

func industryLabel(industry string) string {
	if industry == "" {
		return AllIndustries
	}
	return industry
}

func cell(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return emptyCell
	}
	return *v
}

func intCell(v *int) string {
	if v == nil {
		return emptyCell
	}
	return strconv.Itoa(*v)
}
