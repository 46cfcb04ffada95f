package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
)

// MemoryLeadsRepository keeps leads in process memory. It backs the service
// when no database is configured and is used throughout the tests.
type MemoryLeadsRepository struct {
	mu     sync.RWMutex
	leads  map[int64]entity.Lead
	nextID int64
	now    func() time.Time
}

// MemoryOption configures a MemoryLeadsRepository.
type MemoryOption func(*MemoryLeadsRepository)

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryLeadsRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewMemoryLeadsRepository builds an empty in-memory repository.
func NewMemoryLeadsRepository(opts ...MemoryOption) *MemoryLeadsRepository {
	r := &MemoryLeadsRepository{
		leads:  make(map[int64]entity.Lead),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns leads matching filters ordered by id.
func (r *MemoryLeadsRepository) List(_ context.Context, filters dto.LeadFilters) ([]entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leads := make([]entity.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if filters.Matches(lead.Industry, lead.Headcount) {
			leads = append(leads, cloneLead(lead))
		}
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].ID < leads[j].ID })
	return leads, nil
}

// FindByID retrieves a lead by identifier.
func (r *MemoryLeadsRepository) FindByID(_ context.Context, id int64) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	out := cloneLead(lead)
	return &out, nil
}

// Create stores a new lead and assigns its id and created_at.
func (r *MemoryLeadsRepository) Create(_ context.Context, input dto.LeadCreate) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead := r.insertLocked(input)
	out := cloneLead(lead)
	return &out, nil
}

// CreateMany stores a batch of leads.
func (r *MemoryLeadsRepository) CreateMany(_ context.Context, inputs []dto.LeadCreate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, input := range inputs {
		r.insertLocked(input)
	}
	return len(inputs), nil
}

// Update patches the provided attributes and stamps updated_at.
func (r *MemoryLeadsRepository) Update(_ context.Context, id int64, input dto.LeadUpdate) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.JobTitle != nil {
		lead.JobTitle = copyString(input.JobTitle)
	}
	if input.PhoneNumber != nil {
		lead.PhoneNumber = copyString(input.PhoneNumber)
	}
	if input.Company != nil {
		lead.Company = *input.Company
	}
	if input.Email != nil {
		lead.Email = copyString(input.Email)
	}
	if input.Headcount != nil {
		lead.Headcount = copyInt(input.Headcount)
	}
	if input.Industry != nil {
		lead.Industry = copyString(input.Industry)
	}
	updated := r.now()
	lead.UpdatedAt = &updated
	r.leads[id] = lead

	out := cloneLead(lead)
	return &out, nil
}

// Delete removes a lead by id.
func (r *MemoryLeadsRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r *MemoryLeadsRepository) insertLocked(input dto.LeadCreate) entity.Lead {
	lead := entity.Lead{
		ID:          r.nextID,
		Name:        input.Name,
		JobTitle:    copyString(input.JobTitle),
		PhoneNumber: copyString(input.PhoneNumber),
		Company:     input.Company,
		Email:       copyString(input.Email),
		Headcount:   copyInt(input.Headcount),
		Industry:    copyString(input.Industry),
		CreatedAt:   r.now(),
	}
	r.leads[lead.ID] = lead
	r.nextID++
	return lead
}

func cloneLead(lead entity.Lead) entity.Lead {
	lead.JobTitle = copyString(lead.JobTitle)
	lead.PhoneNumber = copyString(lead.PhoneNumber)
	lead.Email = copyString(lead.Email)
	lead.Headcount = copyInt(lead.Headcount)
	lead.Industry = copyString(lead.Industry)
	if lead.UpdatedAt != nil {
		ts := *lead.UpdatedAt
		lead.UpdatedAt = &ts
	}
	return lead
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

var _ LeadsRepository = (*MemoryLeadsRepository)(nil)
