package service

import (
	"context"
	"net/mail"
	"strings"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/auth"
	"fsanano/shop-api/internal/model"

	"github.com/google/uuid"
)

type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

type UserService struct {
	users         UserStore
	tokens        TokenIssuer
	signupBalance float64
}

func NewUserService(users UserStore, tokens TokenIssuer, signupBalance float64) *UserService {
	return &UserService{users: users, tokens: tokens, signupBalance: signupBalance}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a buyer or seller account. Admins cannot sign themselves up.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if name == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}

	role := in.Role
	if role == "" {
		role = model.RoleBuyer
	}
	if role != model.RoleBuyer && role != model.RoleSeller {
		return nil, apperr.Validation("role must be buyer or seller")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("user already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Balance:      s.signupBalance,
		Cart:         []model.CartLine{},
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.authResult(u)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	return s.authResult(u)
}

func (s *UserService) authResult(u *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateProfile changes name, email or password. Balance and role are not
// editable here.
func (s *UserService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*AuthResult, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		u.Name = name
	}
	if upd.Email != nil {
		email, err := normalizeEmail(*upd.Email)
		if err != nil {
			return nil, err
		}
		u.Email = email
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return s.authResult(u)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Validation("name, email and password are required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Validation("invalid email address")
	}
	return email, nil
}
