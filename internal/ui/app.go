package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/controller"
	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
	"github.com/octobees/leads-manager/internal/validation"
)

// Routes served by the app.
const (
	RouteList    = "/"
	RouteAddLead = "/add-lead"
)

const cancelInput = "cancel"

const listHelp = `Commands:
  refresh                                   reload the list
  filter industry=<name|all> min=<n> max=<n>  apply filters (omitted keys are cleared)
  clear                                     clear all filters
  show <id>                                 show one lead
  update <id> field=value ...               update name, job_title, phone_number, company, email, headcount or industry
  enrich <id>                               enrich a lead
  delete <id>                               delete a lead
  add                                       open the add-lead form
  quit                                      exit`

// App is a line-oriented front end over the list and add-lead pages.
type App struct {
	in     *bufio.Scanner
	out    io.Writer
	ctrl   *controller.LeadsController
	list   *ListPage
	add    *AddLeadPage
	banner *Banner
	logger logrus.FieldLogger
	route  string
}

// AppOption configures an App.
type AppOption func(*App)

// WithAppLogger sets the logger shared by the pages.
func WithAppLogger(logger logrus.FieldLogger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithBanner replaces the default banner.
func WithBanner(b *Banner) AppOption {
	return func(a *App) {
		if b != nil {
			a.banner = b
		}
	}
}

// NewApp wires the pages around ctrl and api, reading commands from in.
func NewApp(ctrl *controller.LeadsController, api LeadsAPI, in io.Reader, out io.Writer, opts ...AppOption) *App {
	a := &App{
		in:     bufio.NewScanner(in),
		out:    out,
		ctrl:   ctrl,
		banner: NewBanner(DefaultBannerTTL),
		logger: logrus.StandardLogger(),
		route:  RouteList,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.list = NewListPage(ctrl, api, a.banner, a.logger)
	a.add = NewAddLeadPage(api, a.banner, a.logger)
	return a
}

// Route returns the current route.
func (a *App) Route() string {
	return a.route
}

// Run loads the list and processes commands until quit, end of input, or ctx is done.
func (a *App) Run(ctx context.Context) error {
	unsubscribe := a.ctrl.Subscribe(func(s controller.State) {
		if a.route == RouteList {
			a.list.Render(a.out, s)
		}
	})
	defer unsubscribe()

	a.navigate(ctx, RouteList)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.route == RouteAddLead {
			a.runAddLead(ctx)
			continue
		}

		line, ok := a.prompt("> ")
		if !ok {
			return a.in.Err()
		}
		if quit := a.dispatch(ctx, line); quit {
			return nil
		}
	}
}

func (a *App) navigate(ctx context.Context, route string) {
	a.route = route
	if route == RouteList {
		a.ctrl.Refresh(ctx)
	}
}

func (a *App) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	a.banner.Clear()
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(a.out, listHelp)
	case "refresh", "list":
		a.list.Refresh(ctx)
	case "clear":
		a.list.ClearFilters(ctx)
	case "filter":
		values, err := parseAssignments(args)
		if err == nil {
			err = a.list.Filter(ctx, values["industry"], values["min"], values["max"])
		}
		if err != nil {
			a.fail(err.Error())
		}
	case "add":
		a.navigate(ctx, RouteAddLead)
	case "show", "enrich", "delete", "update":
		id, err := parseID(args)
		if err != nil {
			a.fail(err.Error())
			return false
		}
		a.leadAction(ctx, cmd, id, args[1:])
	default:
		a.fail(fmt.Sprintf("unknown command %q, type 'help' for the list of commands", cmd))
	}
	return false
}

func (a *App) leadAction(ctx context.Context, cmd string, id int64, args []string) {
	switch cmd {
	case "show":
		a.list.Show(ctx, a.out, id)
	case "enrich":
		a.list.Enrich(ctx, id)
		a.renderBannerOnFailure()
	case "delete":
		answer, ok := a.prompt(fmt.Sprintf("Are you sure you want to delete lead %s? [y/N] ", a.list.LeadName(id)))
		if !ok || !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return
		}
		a.list.Delete(ctx, id)
		a.renderBannerOnFailure()
	case "update":
		values, err := parseAssignments(args)
		if err != nil {
			a.fail(err.Error())
			return
		}
		update, err := leadUpdate(values)
		if err == nil {
			err = a.list.Update(ctx, id, update)
		}
		if err != nil {
			a.fail(err.Error())
			return
		}
		a.renderBannerOnFailure()
	}
}

func (a *App) runAddLead(ctx context.Context) {
	fmt.Fprintln(a.out, "Add New Lead (type 'cancel' at any prompt to go back)")
	if banner := a.banner.String(); banner != "" {
		fmt.Fprintln(a.out, banner)
	}

	var form LeadForm
	steps := []struct {
		label string
		dst   *string
	}{
		{"Name*: ", &form.Name},
		{"Job Title " + choiceHint(entity.JobTitles) + ": ", &form.JobTitle},
		{"Phone Number: ", &form.PhoneNumber},
		{"Company*: ", &form.Company},
		{"Email: ", &form.Email},
		{"Headcount: ", &form.Headcount},
		{"Industry " + choiceHint(entity.Industries) + ": ", &form.Industry},
	}
	for _, step := range steps {
		value, ok := a.prompt(step.label)
		if !ok || strings.EqualFold(strings.TrimSpace(value), cancelInput) {
			a.navigate(ctx, RouteList)
			return
		}
		*step.dst = value
	}

	a.banner.Clear()
	lead, fieldErrs := a.add.Submit(ctx, form)
	switch {
	case len(fieldErrs) > 0:
		for _, field := range []string{"name", "job_title", "phone_number", "company", "email", "headcount", "industry"} {
			if msg, ok := fieldErrs[field]; ok {
				fmt.Fprintf(a.out, "  %s\n", msg)
			}
		}
	case lead == nil:
		// the failure banner is printed when the form is shown again
	default:
		a.navigate(ctx, RouteList)
	}
}

func (a *App) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

func (a *App) fail(message string) {
	a.banner.Failure(message)
	fmt.Fprintln(a.out, a.banner.String())
}

// renderBannerOnFailure prints failure banners, which are not followed by a refresh.
func (a *App) renderBannerOnFailure() {
	if _, kind, ok := a.banner.Current(); ok && kind == BannerFailure {
		fmt.Fprintln(a.out, a.banner.String())
	}
}

func choiceHint(choices []string) string {
	return "(" + strings.Join(choices, ", ") + ")"
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("missing lead id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid lead id %q", args[0])
	}
	return id, nil
}

// parseAssignments reads key=value pairs. A token without "=" continues the previous
// value, so "industry=Real Estate" keeps its space.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string)
	last := ""
	for _, token := range args {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			if last == "" {
				return nil, fmt.Errorf("expected key=value, got %q", token)
			}
			values[last] += " " + token
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", token)
		}
		values[key] = value
		last = key
	}
	return values, nil
}

func leadUpdate(values map[string]string) (dto.LeadUpdate, error) {
	var update dto.LeadUpdate
	for key, value := range values {
		v := strings.TrimSpace(value)
		switch key {
		case "name":
			update.Name = &v
		case "job_title":
			update.JobTitle = &v
		case "phone_number":
			update.PhoneNumber = &v
		case "company":
			update.Company = &v
		case "email":
			if v != "" {
				if err := validation.Default().Email(v); err != nil {
					return dto.LeadUpdate{}, err
				}
			}
			update.Email = &v
		case "headcount":
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return dto.LeadUpdate{}, errors.New("Headcount must be a non-negative number")
			}
			update.Headcount = &n
		case "industry":
			update.Industry = &v
		default:
			return dto.LeadUpdate{}, fmt.Errorf("unknown field %q", key)
		}
	}
	return update, nil
}
