package tasks_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/realtime/pkg/cache"
	"github.com/taskhive/realtime/pkg/notifications"
	"github.com/taskhive/realtime/pkg/projects"
	"github.com/taskhive/realtime/pkg/registry"
	"github.com/taskhive/realtime/pkg/tasks"
)

type fakeTaskStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]tasks.Task
	getCalls int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{rows: make(map[uuid.UUID]tasks.Task)}
}

func (s *fakeTaskStore) Create(ctx context.Context, t tasks.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[t.ID] = t
	return nil
}

func (s *fakeTaskStore) Get(ctx context.Context, id uuid.UUID) (*tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	t, ok := s.rows[id]
	if !ok {
		return nil, tasks.ErrTaskNotFound
	}
	return &t, nil
}

func (s *fakeTaskStore) ListByUser(ctx context.Context, userID string) ([]tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]tasks.Task, 0)
	for _, t := range s.rows {
		if t.CreatedByID == userID || t.AssignedToID == userID {
			list = append(list, t)
		}
	}
	return list, nil
}

func (s *fakeTaskStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]tasks.Task, 0)
	for _, t := range s.rows {
		if t.ProjectID == projectID {
			list = append(list, t)
		}
	}
	return list, nil
}

func (s *fakeTaskStore) Update(ctx context.Context, t tasks.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[t.ID]; !ok {
		return tasks.ErrTaskNotFound
	}
	s.rows[t.ID] = t
	return nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return tasks.ErrTaskNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *fakeTaskStore) gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls
}

type fakeDirectory struct {
	projects map[uuid.UUID]projects.Project
}

func (d *fakeDirectory) Resolve(ctx context.Context, id uuid.UUID) (*projects.Project, error) {
	p, ok := d.projects[id]
	if !ok {
		return nil, projects.ErrProjectNotFound
	}
	return &p, nil
}

type taskFixture struct {
	store   *fakeTaskStore
	cache   *cache.MemoryCache
	buffer  *notifications.MemoryStore
	reg     *registry.Registry
	svc     *tasks.Service
	project projects.Project
}

// newTaskFixture builds a service over one project owned by "owner-1".
func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	project := projects.Project{
		ID:       uuid.New(),
		Name:     "Website Redesign",
		OwnerID:  "owner-1",
		IsActive: true,
	}

	store := newFakeTaskStore()
	memCache := cache.NewMemoryCache()
	buffer := notifications.NewMemoryStore()
	reg := registry.New()
	router := notifications.NewRouter(reg, buffer)
	dir := &fakeDirectory{projects: map[uuid.UUID]projects.Project{project.ID: project}}

	return &taskFixture{
		store:   store,
		cache:   memCache,
		buffer:  buffer,
		reg:     reg,
		svc:     tasks.NewService(store, dir, memCache, router),
		project: project,
	}
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("defaults and room broadcast", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)

		member := newStubChannel("member-1")
		f.reg.Register(member)
		f.reg.JoinRoom(member.ID(), registry.ProjectRoom(f.project.ID.String()))

		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:     "Draft homepage copy",
			ProjectID: f.project.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, tasks.StatusTodo, task.Status)
		assert.Equal(t, tasks.PriorityMedium, task.Priority, "priority defaults to medium")
		assert.False(t, task.IsCompleted)
		assert.Equal(t, "owner-1", task.CreatedByID)

		events := member.received()
		require.Len(t, events, 1)
		assert.Equal(t, "task-created", events[0].Name)
	})

	t.Run("only the project owner may create", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		_, err := f.svc.Create(ctx, "intruder", tasks.CreateParams{
			Title:     "Sneaky",
			ProjectID: f.project.ID,
		})
		assert.ErrorIs(t, err, tasks.ErrAccessDenied)
	})

	t.Run("offline assignee is buffered", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		_, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:        "Review mockups",
			ProjectID:    f.project.ID,
			AssignedToID: "designer-1",
		})
		require.NoError(t, err)

		drained, err := f.buffer.Drain(ctx, "designer-1")
		require.NoError(t, err)
		require.Len(t, drained, 1)
		assert.Equal(t, notifications.TypeTaskAssigned, drained[0].Type)
	})

	t.Run("invalid priority", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		_, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:     "Bad",
			Priority:  tasks.Priority("asap"),
			ProjectID: f.project.ID,
		})
		assert.ErrorIs(t, err, tasks.ErrInvalidPriority)
	})
}

func TestService_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("read-through hits the store once", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:     "Draft homepage copy",
			ProjectID: f.project.ID,
		})
		require.NoError(t, err)

		before := f.store.gets()
		_, err = f.svc.Get(ctx, "owner-1", task.ID)
		require.NoError(t, err)
		assert.Equal(t, before+1, f.store.gets())

		_, err = f.svc.Get(ctx, "owner-1", task.ID)
		require.NoError(t, err)
		assert.Equal(t, before+1, f.store.gets(), "second read served from the cache")
	})

	t.Run("cached entry still enforces access", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:        "Review mockups",
			ProjectID:    f.project.ID,
			AssignedToID: "designer-1",
		})
		require.NoError(t, err)

		// Warm the cache, then read as an outsider.
		_, err = f.svc.Get(ctx, "owner-1", task.ID)
		require.NoError(t, err)

		_, err = f.svc.Get(ctx, "intruder", task.ID)
		assert.ErrorIs(t, err, tasks.ErrAccessDenied)

		// The assignee is not the owner but may still read.
		got, err := f.svc.Get(ctx, "designer-1", task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("reassignment invalidates both assignees' lists", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:        "Review mockups",
			ProjectID:    f.project.ID,
			AssignedToID: "user-a",
		})
		require.NoError(t, err)

		// Warm every key the reassignment must drop.
		_, err = f.svc.Get(ctx, "owner-1", task.ID)
		require.NoError(t, err)
		_, err = f.svc.ListByUser(ctx, "user-a")
		require.NoError(t, err)
		_, err = f.svc.ListByUser(ctx, "user-b")
		require.NoError(t, err)
		_, err = f.svc.ListByProject(ctx, "owner-1", f.project.ID)
		require.NoError(t, err)
		require.NoError(t, f.cache.Set(ctx, cache.ProjectKey(f.project.ID.String()), []byte(`{}`), 0))

		newAssignee := "user-b"
		_, err = f.svc.Update(ctx, "owner-1", task.ID, tasks.UpdateParams{AssignedToID: &newAssignee})
		require.NoError(t, err)

		for _, key := range []string{
			cache.TaskKey(task.ID.String()),
			cache.TasksByUserKey("user-a"),
			cache.TasksByUserKey("user-b"),
			cache.TasksByProjectKey(f.project.ID.String()),
			cache.ProjectKey(f.project.ID.String()),
		} {
			_, err := f.cache.Get(ctx, key)
			assert.ErrorIs(t, err, cache.ErrCacheMiss, "key %s must be invalidated", key)
		}

		// The new assignee's next list read observes the task.
		list, err := f.svc.ListByUser(ctx, "user-b")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "user-b", list[0].AssignedToID)
	})

	t.Run("online assignee gets live notification and nothing buffered", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:     "Review mockups",
			ProjectID: f.project.ID,
		})
		require.NoError(t, err)

		assignee := newStubChannel("user-y")
		f.reg.Register(assignee)

		newAssignee := "user-y"
		_, err = f.svc.Update(ctx, "owner-1", task.ID, tasks.UpdateParams{AssignedToID: &newAssignee})
		require.NoError(t, err)

		events := assignee.received()
		require.Len(t, events, 1)
		assert.Equal(t, notifications.EventNotification, events[0].Name)
		n, ok := events[0].Data.(notifications.Notification)
		require.True(t, ok)
		assert.Equal(t, notifications.TypeTaskAssigned, n.Type)

		drained, err := f.buffer.Drain(ctx, "user-y")
		require.NoError(t, err)
		assert.Empty(t, drained, "live delivery must not buffer")
	})

	t.Run("completion notifies the other party", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:        "Review mockups",
			ProjectID:    f.project.ID,
			AssignedToID: "designer-1",
		})
		require.NoError(t, err)
		_, err = f.buffer.Drain(ctx, "designer-1")
		require.NoError(t, err)

		done := tasks.StatusDone
		updated, err := f.svc.Update(ctx, "designer-1", task.ID, tasks.UpdateParams{Status: &done})
		require.NoError(t, err)
		assert.True(t, updated.IsCompleted)

		drained, err := f.buffer.Drain(ctx, "owner-1")
		require.NoError(t, err)
		require.Len(t, drained, 1)
		assert.Equal(t, notifications.TypeTaskCompleted, drained[0].Type)

		// The actor does not notify themselves.
		drained, err = f.buffer.Drain(ctx, "designer-1")
		require.NoError(t, err)
		assert.Empty(t, drained)
	})

	t.Run("assignee may update, outsider may not", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:        "Review mockups",
			ProjectID:    f.project.ID,
			AssignedToID: "designer-1",
		})
		require.NoError(t, err)

		status := tasks.StatusInProgress
		_, err = f.svc.Update(ctx, "designer-1", task.ID, tasks.UpdateParams{Status: &status})
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, "intruder", task.ID, tasks.UpdateParams{Status: &status})
		assert.ErrorIs(t, err, tasks.ErrAccessDenied)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()

		f := newTaskFixture(t)
		task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
			Title:     "Review mockups",
			ProjectID: f.project.ID,
		})
		require.NoError(t, err)

		bad := tasks.Status("archived")
		_, err = f.svc.Update(ctx, "owner-1", task.ID, tasks.UpdateParams{Status: &bad})
		assert.ErrorIs(t, err, tasks.ErrInvalidStatus)
	})
}

func TestService_ListByProject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTaskFixture(t)

	_, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
		Title:     "Draft homepage copy",
		ProjectID: f.project.ID,
	})
	require.NoError(t, err)

	list, err := f.svc.ListByProject(ctx, "owner-1", f.project.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.ListByProject(ctx, "intruder", f.project.ID)
	assert.ErrorIs(t, err, tasks.ErrAccessDenied)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTaskFixture(t)

	task, err := f.svc.Create(ctx, "owner-1", tasks.CreateParams{
		Title:     "Draft homepage copy",
		ProjectID: f.project.ID,
	})
	require.NoError(t, err)

	member := newStubChannel("member-1")
	f.reg.Register(member)
	f.reg.JoinRoom(member.ID(), registry.ProjectRoom(f.project.ID.String()))

	require.NoError(t, f.svc.Delete(ctx, "owner-1", task.ID))

	_, err = f.svc.Get(ctx, "owner-1", task.ID)
	assert.ErrorIs(t, err, tasks.ErrTaskNotFound)

	events := member.received()
	require.Len(t, events, 1)
	assert.Equal(t, "task-deleted", events[0].Name)
}

type stubChannel struct {
	id     uuid.UUID
	userID string

	mu     sync.Mutex
	events []registry.Event
}

func newStubChannel(userID string) *stubChannel {
	return &stubChannel{id: uuid.New(), userID: userID}
}

func (c *stubChannel) ID() uuid.UUID  { return c.id }
func (c *stubChannel) UserID() string { return c.userID }
func (c *stubChannel) Close() error   { return nil }

func (c *stubChannel) Send(ctx context.Context, ev registry.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *stubChannel) received() []registry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]registry.Event(nil), c.events...)
}
