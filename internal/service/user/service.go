package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"electrostore/internal/domain"
	tokenrepo "electrostore/internal/repository/token"
	userrepo "electrostore/internal/repository/user"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles signup, sessions and role-gated user administration.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	log         *zap.SugaredLogger
	accessTTL   time.Duration
	passwordMin int
}

func New(repo userrepo.Repository, tokens tokenrepo.Repository, accessTTL time.Duration, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if accessTTL <= 0 {
		accessTTL = 48 * time.Hour
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		log:         log,
		accessTTL:   accessTTL,
		passwordMin: 8,
	}
}

type SignupInput struct {
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Surname  string      `json:"surname"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Signup registers a new user with any of the three roles.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Surname) == "" {
		return nil, fmt.Errorf("%w: name and surname required", domain.ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, s.passwordMin)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := domain.User{
		Username:     username,
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Role:         in.Role,
		PasswordHash: string(hashed),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}
	s.log.Infow("user: signed up", "username", username, "role", in.Role)
	u.PasswordHash = ""
	return &u, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, u.Username, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	s.log.Infow("user: logged in", "username", u.Username)
	return u, token, nil
}

// Logout revokes the presented access token.
func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.tokens.Revoke(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Authenticate resolves an access token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	username, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// GetAll lists every user. Admin only.
func (s *Service) GetAll(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.List(ctx)
}

// GetByRole lists users holding one role. Admin only.
func (s *Service) GetByRole(ctx context.Context, caller *domain.User, role domain.Role) ([]domain.User, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	return s.repo.ListByRole(ctx, role)
}

// GetByUsername returns one user: yourself, or anyone if you are an admin.
func (s *Service) GetByUsername(ctx context.Context, caller *domain.User, username string) (*domain.User, error) {
	if caller.Role != domain.RoleAdmin && caller.Username != username {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateInput struct {
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	Address   string     `json:"address"`
	Birthdate *time.Time `json:"birthdate"`
}

// Update modifies personal details: your own, or a non-admin's if you
// are an admin.
func (s *Service) Update(ctx context.Context, caller *domain.User, username string, in UpdateInput) (*domain.User, error) {
	target, err := s.GetByUsername(ctx, caller, username)
	if err != nil {
		return nil, err
	}
	if caller.Username != username && target.Role == domain.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Surname) == "" {
		return nil, fmt.Errorf("%w: name and surname required", domain.ErrInvalidInput)
	}
	if in.Birthdate != nil && in.Birthdate.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: birthdate cannot be in the future", domain.ErrInvalidInput)
	}

	updated, err := s.repo.Update(ctx, username, userrepo.UpdateInput{
		Name:      strings.TrimSpace(in.Name),
		Surname:   strings.TrimSpace(in.Surname),
		Address:   strings.TrimSpace(in.Address),
		Birthdate: in.Birthdate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a user: yourself, or a non-admin if you are an admin.
func (s *Service) Delete(ctx context.Context, caller *domain.User, username string) error {
	target, err := s.GetByUsername(ctx, caller, username)
	if err != nil {
		return err
	}
	if caller.Username != username && target.Role == domain.RoleAdmin {
		return domain.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, username); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	// Sessions die with the account.
	return s.tokens.RevokeAllFor(ctx, username)
}

// DeleteAll removes every non-admin user. Admin only.
func (s *Service) DeleteAll(ctx context.Context, caller *domain.User) error {
	if caller.Role != domain.RoleAdmin {
		return domain.ErrUnauthorized
	}
	s.log.Warnw("user: deleting all non-admin users", "caller", caller.Username)
	return s.repo.DeleteAllNonAdmin(ctx)
}
