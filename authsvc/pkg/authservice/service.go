package authservice

import (
	"context"
	"errors"

	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/authsvc"
	"github.com/taskpad/backend/usersvc"
)

type Service interface {
	Register(ctx context.Context, u usersvc.NewUser) (usersvc.User, string, error)
	Login(ctx context.Context, email, password string) (usersvc.User, string, error)
}

func New(users usersvc.UserRepository, h Hasher, t Tokenizer, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(users, h, t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users     usersvc.UserRepository
	hasher    Hasher
	tokenizer Tokenizer
}

func NewBasicService(users usersvc.UserRepository, h Hasher, t Tokenizer) Service {
	return &basicService{users: users, hasher: h, tokenizer: t}
}

func (s *basicService) Register(_ context.Context, u usersvc.NewUser) (usersvc.User, string, error) {
	u = u.Normalized()
	if err := usersvc.ValidateNewUser(u); err != nil {
		return usersvc.User{}, "", err
	}

	hash, err := s.hasher.Hash(u.Password)
	if err != nil {
		return usersvc.User{}, "", err
	}

	user := usersvc.User{
		Username: u.Username,
		Email:    u.Email,
		Password: hash,
	}
	if err := s.users.Create(&user); err != nil {
		return usersvc.User{}, "", err
	}

	token, err := s.tokenizer.Issue(user.ID, user.Email)
	if err != nil {
		return usersvc.User{}, "", err
	}

	return user, token, nil
}

// Login fails with the same error for an unknown email and a wrong
// password so callers cannot enumerate accounts.
func (s *basicService) Login(_ context.Context, email, password string) (usersvc.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserNotFound) {
			return usersvc.User{}, "", authsvc.ErrInvalidCredentials
		}
		return usersvc.User{}, "", err
	}

	if !s.hasher.Compare(password, user.Password) {
		return usersvc.User{}, "", authsvc.ErrInvalidCredentials
	}

	token, err := s.tokenizer.Issue(user.ID, user.Email)
	if err != nil {
		return usersvc.User{}, "", err
	}

	return user, token, nil
}
