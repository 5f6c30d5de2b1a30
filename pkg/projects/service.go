package projects

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/realtime/pkg/cache"
	"github.com/taskhive/realtime/pkg/logger"
	"github.com/taskhive/realtime/pkg/notifications"
	"github.com/taskhive/realtime/pkg/registry"
)

// Service coordinates project persistence with the cache and the
// notification router. Mutations invalidate every cache key the changed
// row can appear under before returning, so a read issued after a
// mutation returns never observes the stale entry.
type Service struct {
	store  Store
	cache  cache.Cache
	router *notifications.Router
	log    *slog.Logger
	ttl    time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCacheTTL overrides the TTL applied to read-through populates.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService wires the project service.
func NewService(store Store, c cache.Cache, router *notifications.Router, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		cache:  c,
		router: router,
		log:    slog.Default(),
		ttl:    cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new project owned by ownerID and notifies the owner.
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (*Project, error) {
	now := time.Now()
	p := Project{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		Color:       params.Color,
		OwnerID:     ownerID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := s.cache.Invalidate(ctx, cache.ProjectsByUserKey(ownerID)); err != nil {
		s.log.Warn("failed to invalidate project list",
			logger.Component("projects"),
			logger.UserID(ownerID),
			logger.Error(err),
		)
	}

	if err := s.router.NotifyUser(ctx, ownerID, notifications.Notification{
		Type:    notifications.TypeProjectCreated,
		Title:   "Project Created",
		Message: fmt.Sprintf("Project %q has been created", p.Name),
		Data:    p,
	}); err != nil {
		s.log.Warn("failed to notify project creation",
			logger.Component("projects"),
			logger.ProjectID(p.ID),
			logger.Error(err),
		)
	}

	return &p, nil
}

// Get returns the project through the cache. Only the owner may read it;
// the ownership check runs against the returned value, so a cache hit is
// subject to the same access control as a store read.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Project, error) {
	p, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != userID {
		return nil, ErrAccessDenied
	}
	return p, nil
}

// Resolve returns the project through the cache without an ownership
// check. Sibling services use it to answer "who owns this project" when
// authorizing their own operations.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (*Project, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.ProjectKey(id.String()), s.ttl,
		func(ctx context.Context) (*Project, error) {
			return s.store.Get(ctx, id)
		})
}

// ListByOwner returns the caller's active projects through the cache.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Project, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.ProjectsByUserKey(ownerID), s.ttl,
		func(ctx context.Context) ([]Project, error) {
			return s.store.ListByOwner(ctx, ownerID)
		})
}

// Update applies a partial patch to the project. Only the owner may
// mutate it. Room members get a project-updated broadcast; the owner
// additionally gets a durable notification.
func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, params UpdateParams) (*Project, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != userID {
		return nil, ErrAccessDenied
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Color != nil {
		p.Color = *params.Color
	}
	if params.IsActive != nil {
		p.IsActive = *params.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, *p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.invalidateProject(ctx, p)

	s.router.NotifyRoom(ctx, registry.ProjectRoom(id.String()), "project-updated", p)

	if err := s.router.NotifyUser(ctx, p.OwnerID, notifications.Notification{
		Type:    notifications.TypeProjectUpdated,
		Title:   "Project Updated",
		Message: fmt.Sprintf("Project %q has been updated", p.Name),
		Data:    p,
	}); err != nil {
		s.log.Warn("failed to notify project update",
			logger.Component("projects"),
			logger.ProjectID(p.ID),
			logger.Error(err),
		)
	}

	return p, nil
}

// Delete removes the project. Only the owner may delete it.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != userID {
		return ErrAccessDenied
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.invalidateProject(ctx, p)

	s.router.NotifyRoom(ctx, registry.ProjectRoom(id.String()), "project-deleted", map[string]string{"id": id.String()})

	return nil
}

// invalidateProject drops every key the project can appear under,
// including the project's task list, whose rows embed project state.
func (s *Service) invalidateProject(ctx context.Context, p *Project) {
	id := p.ID.String()
	err := s.cache.InvalidateMany(ctx,
		cache.ProjectKey(id),
		cache.ProjectsByUserKey(p.OwnerID),
		cache.TasksByProjectKey(id),
	)
	if err != nil {
		s.log.Warn("failed to invalidate project keys",
			logger.Component("projects"),
			logger.ProjectID(p.ID),
			logger.Error(err),
		)
	}
}
