// Package memory provides an in-memory UserStore for tests, examples, and
// single-process development setups. It is not durable.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/authgate"
)

// Store is a mutex-guarded in-memory implementation of
// [authgate.UserStore].
type Store struct {
	mu      sync.RWMutex
	users   map[string]authgate.UserRecord
	byEmail map[string]string
}

// NewStore describes the newstore operation and its observable behavior.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]authgate.UserRecord),
		byEmail: make(map[string]string),
	}
}

// Put seeds a record directly, generating an ID when absent. Intended for
// test fixtures.
func (s *Store) Put(user authgate.UserRecord) authgate.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return user
}

// FindByEmail describes the findbyemail operation and its observable behavior.
func (s *Store) FindByEmail(_ context.Context, email string) (authgate.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}
	return s.users[id], nil
}

// FindByID describes the findbyid operation and its observable behavior.
func (s *Store) FindByID(_ context.Context, id string) (authgate.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}
	return user, nil
}

// Create describes the create operation and its observable behavior.
func (s *Store) Create(_ context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[input.Email]; exists {
		return authgate.UserRecord{}, fmt.Errorf("user with email %q already exists", input.Email)
	}

	now := time.Now()
	user := authgate.UserRecord{
		ID:        uuid.NewString(),
		Email:     input.Email,
		Name:      input.Name,
		Picture:   input.Picture,
		Role:      input.Role,
		GoogleID:  input.GoogleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return user, nil
}

// Update describes the update operation and its observable behavior.
func (s *Store) Update(_ context.Context, id string, update authgate.UserUpdate) (authgate.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Picture != nil {
		user.Picture = *update.Picture
	}
	if update.GoogleID != nil {
		user.GoogleID = *update.GoogleID
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.LastLogin != nil {
		user.LastLogin = *update.LastLogin
	}
	user.UpdatedAt = time.Now()

	s.users[id] = user
	return user, nil
}

// Count describes the count operation and its observable behavior.
func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
