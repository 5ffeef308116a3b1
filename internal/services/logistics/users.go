package logistics

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/utils"
	"github.com/xelth-com/swiftlog/internal/validator"
)

// Seeded administrator, created when the users table is empty
const (
	AdminEmail    = "admin"
	adminPassword = "admin"
	adminName     = "Administrador Sistema"
	DefaultRole   = "Gerente de Logística"
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"`
}

// Register creates an operator account and returns it without its hash
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validator.ValidateStruct(in); err != nil {
		return models.User{}, invalid("%v", err)
	}
	if _, ok := s.findUser(in.Email); ok {
		return models.User{}, fmt.Errorf("%w: email %s", ErrConflict, in.Email)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	role := in.Role
	if role == "" {
		role = DefaultRole
	}
	u := models.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Avatar:       "https://picsum.photos/seed/" + in.Email + "/100",
		CreatedAt:    s.now(),
	}

	rows := []models.User{u}
	if err := s.store.Insert(ctx, models.TableUsers, &rows); err != nil {
		return models.User{}, s.syncFailed("register", []string{u.Email}, err)
	}
	s.mu.Lock()
	next := make([]models.User, 0, len(s.users)+1)
	next = append(next, s.users...)
	s.users = append(next, u)
	s.mu.Unlock()

	log.Info().Str("email", u.Email).Msg("👤 Operator registered")
	return u.Sanitized(), nil
}

// Authenticate checks credentials; the email match is case-insensitive
func (s *Service) Authenticate(email, password string) (models.User, error) {
	u, ok := s.findUser(strings.ToLower(strings.TrimSpace(email)))
	if !ok || !utils.CheckPasswordHash(password, u.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	return u.Sanitized(), nil
}

// User returns an account by id without its hash
func (s *Service) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.Sanitized(), nil
		}
	}
	return models.User{}, notFound("user", id)
}

func (s *Service) findUser(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Service) seedAdmin(ctx context.Context) error {
	_, err := s.Register(ctx, RegisterInput{
		Name:     adminName,
		Email:    AdminEmail,
		Password: adminPassword,
		Role:     DefaultRole,
	})
	if err == nil {
		log.Warn().Str("email", AdminEmail).Msg("🔑 Seeded default administrator, change its password")
	}
	return err
}
