package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chipin/internal/domain"

	"github.com/shopspring/decimal"
)

const maxNicknameLen = 50

type userService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a UserService backed by userRepo.
func NewUserService(userRepo domain.UserRepository) domain.UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, nickname *string, maxSpend *decimal.Decimal) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if nickname != nil {
		n := strings.TrimSpace(*nickname)
		if len(n) > maxNicknameLen {
			return nil, fmt.Errorf("%w: nickname must be at most %d characters", domain.ErrInvalidInput, maxNicknameLen)
		}
		user.Nickname = n
	}
	if maxSpend != nil {
		if maxSpend.IsNegative() {
			return nil, fmt.Errorf("%w: max_spend must not be negative", domain.ErrInvalidInput)
		}
		limit, err := domain.NormalizeAmount(*maxSpend)
		if err != nil {
			return nil, fmt.Errorf("max_spend: %w", err)
		}
		user.MaxSpend = decimal.NewNullDecimal(limit)
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
