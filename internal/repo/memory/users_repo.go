package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emali/estates-api/internal/domain/user"
	"github.com/google/uuid"
)

// UsersRepo keeps users in a map. It mirrors the unique-index behaviour of
// the Postgres repo and backs local runs without a database and tests.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // {"id": user}
	now   func() time.Time
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
		now:   time.Now,
	}
}

func (r *UsersRepo) Create(_ context.Context, nu user.NewUser) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lookup := user.Lookup{Email: nu.Email, Phone: nu.Phone, Username: nu.Username}
	for _, existing := range r.items {
		if fields := lookup.Conflicts(existing); len(fields) > 0 {
			return user.User{}, &user.ConflictError{Fields: fields}
		}
	}

	now := r.now().UTC()
	u := user.User{
		ID:           uuid.NewString(),
		Email:        user.Fold(nu.Email),
		Phone:        nu.Phone,
		Username:     user.Fold(nu.Username),
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		Role:         nu.Role,
		IsVerified:   false,
		IsActive:     true,
		Language:     nu.Language,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.Role == "" {
		u.Role = user.RoleClient
	}

	r.items[u.ID] = u
	return u, nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool {
		return u.Email == user.Fold(email)
	})
}

// FindByIdentifier matches email or username case-insensitively and phone exactly.
func (r *UsersRepo) FindByIdentifier(_ context.Context, identifier string) (user.User, error) {
	raw := strings.TrimSpace(identifier)
	folded := user.Fold(identifier)

	return r.find(func(u user.User) bool {
		return u.Email == folded || u.Username == folded || u.Phone == raw
	})
}

func (r *UsersRepo) FindConflict(_ context.Context, l user.Lookup) (user.User, error) {
	return r.find(func(u user.User) bool {
		return len(l.Conflicts(u)) > 0
	})
}

func (r *UsersRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return user.ErrNotFound
	}
	at = at.UTC()
	u.LastLogin = &at
	u.UpdatedAt = r.now().UTC()
	r.items[id] = u
	return nil
}

func (r *UsersRepo) MarkVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.items {
		if u.Email == user.Fold(email) {
			u.IsVerified = true
			u.UpdatedAt = r.now().UTC()
			r.items[id] = u
			return nil
		}
	}
	return user.ErrNotFound
}

// List returns users newest first.
func (r *UsersRepo) List(_ context.Context, f user.ListFilter) ([]user.User, int, error) {
	r.mu.RLock()
	all := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := f.Offset
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}

	return all[start:end], total, nil
}

func (r *UsersRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// SetActive toggles the active flag.
func (r *UsersRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = r.now().UTC()
	r.items[id] = u
	return nil
}

func (r *UsersRepo) find(match func(user.User) bool) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}
