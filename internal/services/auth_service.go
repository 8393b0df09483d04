package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reware/internal/domain"
	"reware/internal/repos"
)

var (
	ErrBadCreds      = errors.New("invalid username or password")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// AuthService covers account creation and credential checks. Sessions and
// tokens are deliberately not handled here; callers get the profile back
// and do their own attribution by email.
type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService { return &AuthService{Users: users} }

func (s *AuthService) Register(username, email, password string) (*domain.User, error) {
	if _, err := s.Users.ByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{ID: uuid.NewString(), Username: username, Email: email, Hash: string(h)}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) Login(username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}
