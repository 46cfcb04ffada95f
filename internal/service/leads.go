package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/cache"
	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
	"github.com/octobees/leads-manager/internal/repository"
)

// LeadsService exposes read/write operations for leads.
type LeadsService struct {
	repo     repository.LeadsRepository
	cache    cache.LeadCache
	enricher *Enricher
	logger   logrus.FieldLogger
}

// LeadsServiceOption configures optional dependencies.
type LeadsServiceOption func(*LeadsService)

// WithCache enables read-through caching of single leads.
func WithCache(c cache.LeadCache) LeadsServiceOption {
	return func(s *LeadsService) {
		s.cache = c
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger logrus.FieldLogger) LeadsServiceOption {
	return func(s *LeadsService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository, enricher *Enricher, opts ...LeadsServiceOption) *LeadsService {
	if enricher == nil {
		enricher = NewEnricher(defaultPhoneRegion)
	}
	s := &LeadsService{
		repo:     repo,
		enricher: enricher,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListLeads returns the leads matching filters.
func (s *LeadsService) ListLeads(ctx context.Context, filters dto.LeadFilters) ([]entity.Lead, error) {
	return s.repo.List(ctx, filters)
}

// GetLead returns a single lead, consulting the cache first when one is configured.
func (s *LeadsService) GetLead(ctx context.Context, id int64) (*entity.Lead, error) {
	if s.cache != nil {
		cached, err := s.cache.FindByID(ctx, id)
		if err != nil {
			s.logger.WithError(err).WithField("lead_id", id).Warn("lead cache lookup failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Cache(ctx, lead); err != nil {
			s.logger.WithError(err).WithField("lead_id", id).Warn("lead cache store failed")
		}
	}
	return lead, nil
}

// CreateLead persists a new lead.
func (s *LeadsService) CreateLead(ctx context.Context, input dto.LeadCreate) (*entity.Lead, error) {
	lead, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("lead_id", lead.ID).Debug("lead created")
	return lead, nil
}

// UpdateLead applies a partial update. An empty update returns the stored lead unchanged.
func (s *LeadsService) UpdateLead(ctx context.Context, id int64, input dto.LeadUpdate) (*entity.Lead, error) {
	if input.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}
	lead, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return lead, nil
}

// DeleteLead removes a lead.
func (s *LeadsService) DeleteLead(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	s.logger.WithField("lead_id", id).Debug("lead deleted")
	return nil
}

// EnrichLead normalizes the lead's attributes and stamps updated_at, even when
// nothing needed to change.
func (s *LeadsService) EnrichLead(ctx context.Context, id int64) (*entity.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := s.enricher.Enrich(*lead)
	enriched, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("store enriched lead: %w", err)
	}
	s.evict(ctx, id)
	s.logger.WithFields(logrus.Fields{"lead_id": id, "changed": !update.IsEmpty()}).Info("lead enriched")
	return enriched, nil
}

// evict runs after the write so a concurrent read cannot re-cache the old row.
func (s *LeadsService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.EvictByID(ctx, id); err != nil {
		s.logger.WithError(err).WithField("lead_id", id).Warn("lead cache eviction failed")
	}
}
