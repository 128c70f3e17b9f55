package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"fleetmaster/internal/models"
	"fleetmaster/internal/repository"
)

// memRepo is an in-memory Repository keyed by the entity id.
type memRepo[T any] struct {
	items     map[int]T
	next      int
	id        func(*T) *int
	deleteErr error
}

func newMemRepo[T any](id func(*T) *int) *memRepo[T] {
	return &memRepo[T]{items: map[int]T{}, id: id}
}

func (r *memRepo[T]) GetAll(ctx context.Context) ([]T, error) {
	keys := make([]int, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.items[k])
	}
	return out, nil
}

func (r *memRepo[T]) GetByID(ctx context.Context, id int) (*T, error) {
	v, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (r *memRepo[T]) Add(ctx context.Context, entity *T) error {
	r.next++
	*r.id(entity) = r.next
	r.items[r.next] = *entity
	return nil
}

func (r *memRepo[T]) Update(ctx context.Context, entity *T) error {
	id := *r.id(entity)
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	r.items[id] = *entity
	return nil
}

func (r *memRepo[T]) Delete(ctx context.Context, id int) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type memCars struct{ *memRepo[models.Car] }

func newMemCars() *memCars {
	return &memCars{newMemRepo(func(c *models.Car) *int { return &c.ID })}
}

func (r *memCars) SetImageURL(ctx context.Context, id int, url string) error {
	c, ok := r.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.ImageURL = &url
	r.items[id] = c
	return nil
}

type memCustomers struct{ *memRepo[models.Customer] }

func newMemCustomers() *memCustomers {
	return &memCustomers{newMemRepo(func(c *models.Customer) *int { return &c.ID })}
}

func (r *memCustomers) GetByIdentityUserID(ctx context.Context, userID string) (*models.Customer, error) {
	for _, c := range r.items {
		if c.IdentityUserID == userID {
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newMemBranches() *memRepo[models.Branch] {
	return newMemRepo(func(b *models.Branch) *int { return &b.ID })
}

func newMemRentals() *memRepo[models.Rental] {
	return newMemRepo(func(r *models.Rental) *int { return &r.ID })
}

type memUsers struct {
	users     map[string]*models.User
	customers *memCustomers
	createErr error
}

func newMemUsers(customers *memCustomers) *memUsers {
	return &memUsers{users: map[string]*models.User{}, customers: customers}
}

func (r *memUsers) CreateWithCustomer(ctx context.Context, user *models.User, customer *models.Customer) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	customer.IdentityUserID = user.ID
	return r.customers.Add(ctx, customer)
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUsers) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.UserName, userName) })
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memUsers) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memResets struct {
	tokens    []*models.PasswordResetToken
	users     *memUsers
	redeemErr error
	// beforeRedeem runs ahead of the claim, standing in for a rival request.
	beforeRedeem func()
}

func (r *memResets) Replace(ctx context.Context, token *models.PasswordResetToken) error {
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.Used || !strings.EqualFold(t.Email, token.Email) {
			kept = append(kept, t)
		}
	}
	r.tokens = append(kept, token)
	return nil
}

func (r *memResets) GetUnused(ctx context.Context, email string, code string) (*models.PasswordResetToken, error) {
	for _, t := range r.tokens {
		if !t.Used && t.Code == code && strings.EqualFold(t.Email, email) {
			return t, nil
		}
	}
	return nil, repository.ErrResetTokenNotFound
}

func (r *memResets) Redeem(ctx context.Context, tokenID, userID, passwordHash string, usedAt time.Time) error {
	if r.beforeRedeem != nil {
		r.beforeRedeem()
	}
	if r.redeemErr != nil {
		return r.redeemErr
	}
	for _, t := range r.tokens {
		if t.ID == tokenID && !t.Used && usedAt.Before(t.ExpiresAt) {
			if err := r.users.UpdatePasswordHash(ctx, userID, passwordHash); err != nil {
				return err
			}
			t.Used = true
			t.UsedAt = &usedAt
			return nil
		}
	}
	return repository.ErrResetTokenNotFound
}

func (r *memResets) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to string, subject string, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

type fixedLimiter struct{ allow bool }

func (l fixedLimiter) Allow(context.Context, string) (bool, error) { return l.allow, nil }

type memImageStore struct {
	keys []string
}

func (s *memImageStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}
