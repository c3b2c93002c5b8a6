package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"
)

type accountService struct {
	accounts repository.AccountRepository
}

func NewAccountService(accounts repository.AccountRepository) AccountService {
	return &accountService{accounts: accounts}
}

func (s *accountService) Register(ctx context.Context, name, email, password, birthDate string) (*domain.Account, error) {
	if name == "" || email == "" || password == "" || birthDate == "" {
		return nil, fmt.Errorf("%w: name, email, password and birth date are required", domain.ErrInvalidState)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a := &domain.Account{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		BirthDate:    birthDate,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *accountService) Get(ctx context.Context, id int32) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *accountService) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}
