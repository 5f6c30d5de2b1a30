package tasks

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

// Service coordinates task persistence with the cache and the
// notification router.
//
// Access rule: the task's creator and assignee, and the owner of its
// project, may read and mutate it. The rule is evaluated against cached
// values too, so serving a read from the cache never widens access.
type Service struct {
	store    Store
	projects ProjectDirectory
	cache    cache.Cache
	router   *notifications.Router
	log      *slog.Logger
	ttl      time.Duration
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

// NewService wires the task service.
func NewService(store Store, dir ProjectDirectory, c cache.Cache, router *notifications.Router, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		projects: dir,
		cache:    c,
		router:   router,
		log:      slog.Default(),
		ttl:      cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new task in the given project. The caller must own
// the project. The assignee, when set and distinct from the creator,
// gets a TASK_ASSIGNED notification; the project room gets a
// task-created broadcast.
func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Task, error) {
	if params.Priority == "" {
		params.Priority = PriorityMedium
	}
	if !params.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	project, err := s.projects.Resolve(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, ErrAccessDenied
	}

	now := time.Now()
	t := Task{
		ID:           uuid.New(),
		Title:        params.Title,
		Description:  params.Description,
		Status:       StatusTodo,
		Priority:     params.Priority,
		DueDate:      params.DueDate,
		Tags:         params.Tags,
		ProjectID:    params.ProjectID,
		CreatedByID:  userID,
		AssignedToID: params.AssignedToID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.invalidate(ctx, &t, "")

	s.router.NotifyRoom(ctx, registry.ProjectRoom(t.ProjectID.String()), "task-created", t)

	if t.AssignedToID != "" && t.AssignedToID != userID {
		s.notify(ctx, t.AssignedToID, notifications.TypeTaskAssigned,
			"Task Assigned",
			fmt.Sprintf("You have been assigned to %q", t.Title), &t)
	}

	return &t, nil
}

// Get returns the task through the cache, subject to the access rule.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Task, error) {
	t, err := cache.GetOrCompute(ctx, s.cache, cache.TaskKey(id.String()), s.ttl,
		func(ctx context.Context) (*Task, error) {
			return s.store.Get(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByUser returns the tasks the caller created or is assigned to,
// through the cache.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.TasksByUserKey(userID), s.ttl,
		func(ctx context.Context) ([]Task, error) {
			return s.store.ListByUser(ctx, userID)
		})
}

// ListByProject returns the project's tasks through the cache. The
// caller must own the project.
func (s *Service) ListByProject(ctx context.Context, userID string, projectID uuid.UUID) ([]Task, error) {
	project, err := s.projects.Resolve(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, ErrAccessDenied
	}

	return cache.GetOrCompute(ctx, s.cache, cache.TasksByProjectKey(projectID.String()), s.ttl,
		func(ctx context.Context) ([]Task, error) {
			return s.store.ListByProject(ctx, projectID)
		})
}

// Update applies a partial patch to the task, subject to the access
// rule. A reassignment notifies the new assignee and invalidates both
// the old and the new assignee's task lists. A transition to done sends
// TASK_COMPLETED instead of TASK_UPDATED.
func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, params UpdateParams) (*Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, t); err != nil {
		return nil, err
	}

	prevAssignee := t.AssignedToID
	wasCompleted := t.IsCompleted

	if params.Title != nil {
		t.Title = *params.Title
	}
	if params.Description != nil {
		t.Description = *params.Description
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		t.Status = *params.Status
		t.IsCompleted = t.Status == StatusDone
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		t.Priority = *params.Priority
	}
	if params.DueDate != nil {
		t.DueDate = params.DueDate
	}
	if params.Tags != nil {
		t.Tags = *params.Tags
	}
	if params.AssignedToID != nil {
		t.AssignedToID = *params.AssignedToID
	}
	t.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, *t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.invalidate(ctx, t, prevAssignee)

	s.router.NotifyRoom(ctx, registry.ProjectRoom(t.ProjectID.String()), "task-updated", t)

	reassigned := t.AssignedToID != prevAssignee && t.AssignedToID != ""
	if reassigned && t.AssignedToID != userID {
		s.notify(ctx, t.AssignedToID, notifications.TypeTaskAssigned,
			"Task Assigned",
			fmt.Sprintf("You have been assigned to %q", t.Title), t)
	}

	// The counterpart who did not make the change hears about it.
	completed := t.IsCompleted && !wasCompleted
	for _, recipient := range []string{t.CreatedByID, prevAssignee} {
		if recipient == "" || recipient == userID {
			continue
		}
		if reassigned && recipient == t.AssignedToID {
			continue
		}
		if completed {
			s.notify(ctx, recipient, notifications.TypeTaskCompleted,
				"Task Completed",
				fmt.Sprintf("Task %q has been completed", t.Title), t)
		} else {
			s.notify(ctx, recipient, notifications.TypeTaskUpdated,
				"Task Updated",
				fmt.Sprintf("Task %q has been updated", t.Title), t)
		}
	}

	return t, nil
}

// Delete removes the task, subject to the access rule.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, t); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.invalidate(ctx, t, "")

	s.router.NotifyRoom(ctx, registry.ProjectRoom(t.ProjectID.String()), "task-deleted", map[string]string{"id": id.String()})

	return nil
}

// authorize applies the access rule. The project owner lookup runs last
// because the creator and assignee checks need no extra read.
func (s *Service) authorize(ctx context.Context, userID string, t *Task) error {
	if t.CreatedByID == userID || (t.AssignedToID != "" && t.AssignedToID == userID) {
		return nil
	}
	project, err := s.projects.Resolve(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if project.OwnerID != userID {
		return ErrAccessDenied
	}
	return nil
}

// invalidate drops every key the task can appear under: the task itself,
// the project's task list and read model, and the task lists of the
// creator, the current assignee, and prevAssignee when a reassignment
// moved the task out of that user's list.
func (s *Service) invalidate(ctx context.Context, t *Task, prevAssignee string) {
	keys := []string{
		cache.TaskKey(t.ID.String()),
		cache.TasksByProjectKey(t.ProjectID.String()),
		cache.ProjectKey(t.ProjectID.String()),
		cache.TasksByUserKey(t.CreatedByID),
	}
	if t.AssignedToID != "" && t.AssignedToID != t.CreatedByID {
		keys = append(keys, cache.TasksByUserKey(t.AssignedToID))
	}
	if prevAssignee != "" && prevAssignee != t.CreatedByID && prevAssignee != t.AssignedToID {
		keys = append(keys, cache.TasksByUserKey(prevAssignee))
	}

	if err := s.cache.InvalidateMany(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate task keys",
			logger.Component("tasks"),
			logger.TaskID(t.ID),
			logger.Error(err),
		)
	}
}

func (s *Service) notify(ctx context.Context, userID string, typ notifications.Type, title, message string, t *Task) {
	err := s.router.NotifyUser(ctx, userID, notifications.Notification{
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    t,
	})
	if err != nil {
		s.log.Warn("failed to route task notification",
			logger.Component("tasks"),
			logger.TaskID(t.ID),
			logger.UserID(userID),
			logger.Error(err),
		)
	}
}
