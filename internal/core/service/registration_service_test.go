package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// stubUserRepo mimics the identity store, including the atomic
// create-with-constraint behaviour: the uniqueness check and the insert
// happen under one lock, so concurrent duplicates resolve to exactly one
// winner.
type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}

	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func testCredentials() *BcryptCredentialService {
	return NewBcryptCredentialService(bcrypt.MinCost, 2)
}

func newRegistrationService(repo ports.UserRepository) *RegistrationService {
	return NewRegistrationService(repo, testCredentials(), zerolog.Nop())
}

func TestRegistrationService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newRegistrationService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     "a@x.com",
		Password:  "secret1",
		FirstName: "A",
		LastName:  "B",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role USER, got %s", user.Role)
	}
	if !user.Enabled {
		t.Fatalf("expected new user to be enabled")
	}
}

func TestRegistrationService_Register_UsernameDefaultsToEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newRegistrationService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     "Carol@Example.com",
		Password:  "s3cret",
		FirstName: "Carol",
		LastName:  "Jones",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "carol@example.com" {
		t.Fatalf("expected username defaulted to lowercased email, got %q", user.Username)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
}

func TestRegistrationService_Register_Validation(t *testing.T) {
	svc := newRegistrationService(newStubUserRepo())

	cases := []struct {
		name    string
		in      ports.RegisterInput
		message string
	}{
		{
			name:    "missing email",
			in:      ports.RegisterInput{Password: "secret1", FirstName: "A", LastName: "B"},
			message: "valid email",
		},
		{
			name:    "malformed email",
			in:      ports.RegisterInput{Email: "not-an-email", Password: "secret1", FirstName: "A", LastName: "B"},
			message: "valid email",
		},
		{
			name:    "dot before at",
			in:      ports.RegisterInput{Email: "a.b@xcom", Password: "secret1", FirstName: "A", LastName: "B"},
			message: "valid email",
		},
		{
			name:    "short password",
			in:      ports.RegisterInput{Email: "a@x.com", Password: "123", FirstName: "A", LastName: "B"},
			message: "at least 6 characters",
		},
		{
			name:    "missing first name",
			in:      ports.RegisterInput{Email: "a@x.com", Password: "secret1", LastName: "B"},
			message: "First name",
		},
		{
			name:    "missing last name",
			in:      ports.RegisterInput{Email: "a@x.com", Password: "secret1", FirstName: "A"},
			message: "Last name",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(ve.Message, tc.message) {
				t.Fatalf("expected message containing %q, got %q", tc.message, ve.Message)
			}
		})
	}
}

func TestRegistrationService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newRegistrationService(repo)

	in := ports.RegisterInput{Email: "a@x.com", Password: "secret1", FirstName: "A", LastName: "B"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if !strings.Contains(err.Error(), "already taken") {
		t.Fatalf("expected user-facing message, got %q", err.Error())
	}
}

func TestRegistrationService_Register_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newRegistrationService(repo)

	first := ports.RegisterInput{Username: "bob", Email: "bob@x.com", Password: "secret1", FirstName: "Bob", LastName: "K"}
	if _, err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	second := ports.RegisterInput{Username: "Bob", Email: "bob2@x.com", Password: "secret1", FirstName: "Bob", LastName: "K"}
	_, err := svc.Register(context.Background(), second)
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegistrationService_Register_ConcurrentDuplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newRegistrationService(repo)

	const attempts = 8
	in := ports.RegisterInput{Email: "race@x.com", Password: "secret1", FirstName: "R", LastName: "C"}

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), in)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var created, duplicates int
	for err := range results {
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", created)
	}
	if duplicates != attempts-1 {
		t.Fatalf("expected %d duplicate failures, got %d", attempts-1, duplicates)
	}

	count, _ := repo.ExistsByEmail(context.Background(), "race@x.com")
	if !count {
		t.Fatalf("winning registration missing from store")
	}
}
