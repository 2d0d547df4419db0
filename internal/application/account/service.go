package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/pkg/id"
	"github.com/lifeguard-api/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFirstName        = "first_name"
	fieldLastName         = "last_name"
	fieldDailyCalorieGoal = "daily_calorie_goal"
	fieldDailyProteinGoal = "daily_protein_goal"
	fieldDailyCarbsGoal   = "daily_carbs_goal"
	fieldDailyFatGoal     = "daily_fat_goal"
	fieldDailyWaterGoal   = "daily_water_goal"
)

// EventAccountCreated is published once per newly provisioned account.
const EventAccountCreated = "account.created"

type Service interface {
	// Resolve returns the account for a verified Telegram profile, creating
	// it on first sight. Repeat calls never modify the stored profile.
	Resolve(ctx context.Context, profile domain.TelegramProfile) (*domain.Account, error)
	Get(ctx context.Context, telegramID int64) (*domain.Account, error)
	Goals(ctx context.Context, telegramID int64) (*domain.Goals, error)
	Update(ctx context.Context, telegramID int64, req domain.UpdateAccountRequest) (*domain.Account, error)
	SetGoals(ctx context.Context, telegramID int64, goals domain.Goals) (*domain.Account, error)
}

type accountStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Account, error)
	// Create must fail with domain.ErrDuplicateIdentity when the Telegram id is taken.
	Create(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, telegramID int64, updates map[string]interface{}) (*domain.Account, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

type service struct {
	repo      accountStore
	publisher eventPublisher
	now       func() time.Time
}

type ServiceDeps struct {
	AccountRepo accountStore
	// Publisher is optional.
	Publisher eventPublisher
	Now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.AccountRepo, publisher: deps.Publisher, now: now}
}

func (s *service) Resolve(ctx context.Context, profile domain.TelegramProfile) (*domain.Account, error) {
	if profile.ID == 0 {
		return nil, fmt.Errorf("telegram id is required: %w", domain.ErrBadRequest)
	}
	existing, err := s.repo.GetByTelegramID(ctx, profile.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	now := s.now().UTC()
	a := &domain.Account{
		AccountID:  id.NewAt(now),
		TelegramID: profile.ID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Goals:      domain.DefaultGoals(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if !errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, fmt.Errorf("create account: %w", err)
		}
		// A concurrent first sign-in won the race; hand back its account.
		winner, gErr := s.repo.GetByTelegramID(ctx, profile.ID)
		if gErr != nil {
			return nil, fmt.Errorf("reload account after conflict: %w", gErr)
		}
		metrics.IdentityConflicts.Inc()
		return winner, nil
	}

	metrics.AccountsProvisioned.Inc()
	zerolog.Ctx(ctx).Info().
		Str("account_id", a.AccountID).
		Int64("telegram_id", a.TelegramID).
		Msg("account provisioned")
	s.publishCreated(ctx, a)
	return a, nil
}

func (s *service) Get(ctx context.Context, telegramID int64) (*domain.Account, error) {
	return s.repo.GetByTelegramID(ctx, telegramID)
}

func (s *service) Goals(ctx context.Context, telegramID int64) (*domain.Goals, error) {
	a, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return &a.Goals, nil
}

func (s *service) Update(ctx context.Context, telegramID int64, req domain.UpdateAccountRequest) (*domain.Account, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.DailyCalorieGoal != nil {
		updates[fieldDailyCalorieGoal] = *req.DailyCalorieGoal
	}
	if req.DailyProteinGoal != nil {
		updates[fieldDailyProteinGoal] = *req.DailyProteinGoal
	}
	if req.DailyCarbsGoal != nil {
		updates[fieldDailyCarbsGoal] = *req.DailyCarbsGoal
	}
	if req.DailyFatGoal != nil {
		updates[fieldDailyFatGoal] = *req.DailyFatGoal
	}
	if req.DailyWaterGoal != nil {
		updates[fieldDailyWaterGoal] = *req.DailyWaterGoal
	}
	if len(updates) == 0 {
		return s.repo.GetByTelegramID(ctx, telegramID)
	}
	return s.repo.Update(ctx, telegramID, updates)
}

func (s *service) SetGoals(ctx context.Context, telegramID int64, goals domain.Goals) (*domain.Account, error) {
	return s.repo.Update(ctx, telegramID, map[string]interface{}{
		fieldDailyCalorieGoal: goals.DailyCalorieGoal,
		fieldDailyProteinGoal: goals.DailyProteinGoal,
		fieldDailyCarbsGoal:   goals.DailyCarbsGoal,
		fieldDailyFatGoal:     goals.DailyFatGoal,
		fieldDailyWaterGoal:   goals.DailyWaterGoal,
	})
}

func (s *service) publishCreated(ctx context.Context, a *domain.Account) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"account_id":  a.AccountID,
		"telegram_id": a.TelegramID,
		"created_at":  a.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, EventAccountCreated, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("account_id", a.AccountID).Msg("publish account event failed")
	}
}
