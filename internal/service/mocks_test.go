package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/notify"
	"github.com/taskpulse/taskpulse-api/internal/realtime"
	"github.com/taskpulse/taskpulse-api/internal/service/auth"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// mockTaskStore is a configurable in-memory TaskStore for service tests.
type mockTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	createCalls int
	updateCalls int
	deleteCalls int
	listCalls   int
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (m *mockTaskStore) Create(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskStore) GetByID(_ context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskStore) List(
	_ context.Context,
	userID uuid.UUID,
	_ store.TaskFilter,
) ([]*domain.Task, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []*domain.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (m *mockTaskStore) Update(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskStore) ListAll(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

var _ store.TaskStore = (*mockTaskStore)(nil)

// mockCache records cache traffic without storing anything unless primed.
type mockCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations []uuid.UUID
	invalidateErr error
	setCalls      int
	getCalls      int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	data, ok := m.entries[key]
	return data, ok
}

func (m *mockCache) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	m.entries[key] = value
}

func (m *mockCache) InvalidateNamespace(_ context.Context, _ string, owner uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidations = append(m.invalidations, owner)
	if m.invalidateErr != nil {
		return m.invalidateErr
	}
	for k := range m.entries {
		delete(m.entries, k)
	}
	return nil
}

// mockBroadcaster records emitted signal kinds in order.
type mockBroadcaster struct {
	mu    sync.Mutex
	kinds []realtime.SignalKind
}

func (m *mockBroadcaster) Emit(_ context.Context, kind realtime.SignalKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds = append(m.kinds, kind)
}

func (m *mockBroadcaster) emitted() []realtime.SignalKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]realtime.SignalKind(nil), m.kinds...)
}

var _ realtime.Broadcaster = (*mockBroadcaster)(nil)

// mockProducer records published notification messages.
type mockProducer struct {
	mu         sync.Mutex
	messages   []notify.Message
	publishErr error
}

func (m *mockProducer) Publish(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.publishErr
}

func (m *mockProducer) published() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.messages...)
}

var _ notify.Producer = (*mockProducer)(nil)

// mockUserStore is an in-memory UserStore keyed by ID and email.
type mockUserStore struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*domain.User
	byEmail   map[string]*domain.User
	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *mockUserStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	copied := *user
	m.byID[user.ID] = &copied
	m.byEmail[user.Email] = &copied
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

var _ store.UserStore = (*mockUserStore)(nil)

// mockJWTService issues predictable tokens.
type mockJWTService struct {
	generateErr error
}

func (m *mockJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "token-" + userID.String(), nil
}

func (m *mockJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	id, err := uuid.Parse(strings.TrimPrefix(token, "token-"))
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: id}, nil
}

var _ auth.JWTService = (*mockJWTService)(nil)

// errMismatchedPassword is what mockVerifier returns on a bad password.
var errMismatchedPassword = errors.New("password mismatch")

// mockVerifier compares against the "hashed:" prefix used by mockUserStore.
type mockVerifier struct{}

func (mockVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return errMismatchedPassword
}

var _ auth.PasswordVerifier = (mockVerifier{})
