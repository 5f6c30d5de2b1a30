package projects_test

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
)

type fakeStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]projects.Project
	getCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[uuid.UUID]projects.Project)}
}

func (s *fakeStore) Create(ctx context.Context, p projects.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.ID] = p
	return nil
}

func (s *fakeStore) Get(ctx context.Context, id uuid.UUID) (*projects.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	p, ok := s.rows[id]
	if !ok {
		return nil, projects.ErrProjectNotFound
	}
	return &p, nil
}

func (s *fakeStore) ListByOwner(ctx context.Context, ownerID string) ([]projects.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]projects.Project, 0)
	for _, p := range s.rows {
		if p.OwnerID == ownerID && p.IsActive {
			list = append(list, p)
		}
	}
	return list, nil
}

func (s *fakeStore) Update(ctx context.Context, p projects.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.ID]; !ok {
		return projects.ErrProjectNotFound
	}
	s.rows[p.ID] = p
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return projects.ErrProjectNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *fakeStore) gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls
}

type projectFixture struct {
	store  *fakeStore
	cache  *cache.MemoryCache
	buffer *notifications.MemoryStore
	reg    *registry.Registry
	svc    *projects.Service
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()

	store := newFakeStore()
	memCache := cache.NewMemoryCache()
	buffer := notifications.NewMemoryStore()
	reg := registry.New()
	router := notifications.NewRouter(reg, buffer)

	return &projectFixture{
		store:  store,
		cache:  memCache,
		buffer: buffer,
		reg:    reg,
		svc:    projects.NewService(store, memCache, router),
	}
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newProjectFixture(t)

	// Prime the list key so the create has something to invalidate.
	_, err := f.svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, cache.ProjectsByUserKey("owner-1"), []byte(`[]`), 0))

	p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{
		Name:        "Website Redesign",
		Description: "Q3 marketing site refresh",
		Color:       "#2563eb",
	})
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.True(t, p.IsActive, "new projects start active")
	assert.False(t, p.CreatedAt.IsZero())

	_, err = f.cache.Get(ctx, cache.ProjectsByUserKey("owner-1"))
	assert.ErrorIs(t, err, cache.ErrCacheMiss, "create invalidates the owner's list")

	// Owner is offline, so the creation notification lands in the buffer.
	drained, err := f.buffer.Drain(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, drained, 1)
	assert.Equal(t, notifications.TypeProjectCreated, drained[0].Type)
}

func TestService_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("read-through hits the store once", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{Name: "Alpha"})
		require.NoError(t, err)

		before := f.store.gets()
		got, err := f.svc.Get(ctx, "owner-1", p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, before+1, f.store.gets())

		// Second read is served from the cache.
		got, err = f.svc.Get(ctx, "owner-1", p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", got.Name)
		assert.Equal(t, before+1, f.store.gets())
	})

	t.Run("cached entry still enforces ownership", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{Name: "Alpha"})
		require.NoError(t, err)

		// Warm the cache as the owner, then read as someone else.
		_, err = f.svc.Get(ctx, "owner-1", p.ID)
		require.NoError(t, err)

		_, err = f.svc.Get(ctx, "intruder", p.ID)
		assert.ErrorIs(t, err, projects.ErrAccessDenied)
	})

	t.Run("unknown project", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		_, err := f.svc.Get(ctx, "owner-1", uuid.New())
		assert.ErrorIs(t, err, projects.ErrProjectNotFound)
	})
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("patch and invalidate", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{Name: "Alpha", Color: "#111111"})
		require.NoError(t, err)

		// Warm the keys the update must drop.
		_, err = f.svc.Get(ctx, "owner-1", p.ID)
		require.NoError(t, err)
		_, err = f.svc.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.NoError(t, f.cache.Set(ctx, cache.TasksByProjectKey(p.ID.String()), []byte(`[]`), 0))

		name := "Beta"
		updated, err := f.svc.Update(ctx, "owner-1", p.ID, projects.UpdateParams{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Beta", updated.Name)
		assert.Equal(t, "#111111", updated.Color, "unset fields are untouched")
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt) || updated.UpdatedAt.Equal(p.UpdatedAt))

		for _, key := range []string{
			cache.ProjectKey(p.ID.String()),
			cache.ProjectsByUserKey("owner-1"),
			cache.TasksByProjectKey(p.ID.String()),
		} {
			_, err := f.cache.Get(ctx, key)
			assert.ErrorIs(t, err, cache.ErrCacheMiss, "key %s must be invalidated", key)
		}

		// A read after the update observes the new state.
		got, err := f.svc.Get(ctx, "owner-1", p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beta", got.Name)
	})

	t.Run("only the owner may update", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{Name: "Alpha"})
		require.NoError(t, err)

		name := "Hijacked"
		_, err = f.svc.Update(ctx, "intruder", p.ID, projects.UpdateParams{Name: &name})
		assert.ErrorIs(t, err, projects.ErrAccessDenied)

		got, err := f.svc.Get(ctx, "owner-1", p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", got.Name)
	})

	t.Run("room members observe the change", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{Name: "Alpha"})
		require.NoError(t, err)

		member := newStubChannel("member-1")
		f.reg.Register(member)
		f.reg.JoinRoom(member.ID(), registry.ProjectRoom(p.ID.String()))

		name := "Beta"
		_, err = f.svc.Update(ctx, "owner-1", p.ID, projects.UpdateParams{Name: &name})
		require.NoError(t, err)

		events := member.received()
		require.Len(t, events, 1)
		assert.Equal(t, "project-updated", events[0].Name)
	})
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("owner deletes and keys drop", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{Name: "Alpha"})
		require.NoError(t, err)

		_, err = f.svc.Get(ctx, "owner-1", p.ID)
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, "owner-1", p.ID))

		_, err = f.svc.Get(ctx, "owner-1", p.ID)
		assert.ErrorIs(t, err, projects.ErrProjectNotFound)
	})

	t.Run("only the owner may delete", func(t *testing.T) {
		t.Parallel()

		f := newProjectFixture(t)
		p, err := f.svc.Create(ctx, "owner-1", projects.CreateParams{Name: "Alpha"})
		require.NoError(t, err)

		err = f.svc.Delete(ctx, "intruder", p.ID)
		assert.ErrorIs(t, err, projects.ErrAccessDenied)
	})
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
