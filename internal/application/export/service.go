package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/pkg/id"
	"github.com/rs/zerolog"
)

// downloadTTL is how long the presigned download link stays valid.
const downloadTTL = 15 * time.Minute

type Service interface {
	// Export writes a JSON snapshot of everything the account owns to object
	// storage. It fails with domain.ErrUnavailable when no bucket is configured.
	Export(ctx context.Context, account *domain.Account) (*domain.ExportResult, error)
}

type workoutReader interface {
	ListByUser(ctx context.Context, userID, startDate, endDate string) ([]domain.Workout, error)
}

type mealReader interface {
	ListByUser(ctx context.Context, userID, date string) ([]domain.Meal, error)
}

type waterReader interface {
	ListByUser(ctx context.Context, userID, date string) ([]domain.WaterLog, error)
}

type shoppingReader interface {
	ListByUser(ctx context.Context, userID string, f domain.ShoppingFilter) ([]domain.ShoppingItem, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	workouts workoutReader
	meals    mealReader
	water    waterReader
	shopping shoppingReader
	store    objectStore
	now      func() time.Time
}

type ServiceDeps struct {
	WorkoutRepo  workoutReader
	MealRepo     mealReader
	WaterRepo    waterReader
	ShoppingRepo shoppingReader
	// Store is optional; without it every export is unavailable.
	Store objectStore
	Now   func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		workouts: deps.WorkoutRepo,
		meals:    deps.MealRepo,
		water:    deps.WaterRepo,
		shopping: deps.ShoppingRepo,
		store:    deps.Store,
		now:      now,
	}
}

func (s *service) Export(ctx context.Context, account *domain.Account) (*domain.ExportResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("data export is not configured: %w", domain.ErrUnavailable)
	}
	now := s.now().UTC()
	snap := domain.AccountExport{ExportedAt: now, Account: *account}

	var err error
	if snap.Workouts, err = s.workouts.ListByUser(ctx, account.AccountID, "", ""); err != nil {
		return nil, fmt.Errorf("export workouts: %w", err)
	}
	if snap.Meals, err = s.meals.ListByUser(ctx, account.AccountID, ""); err != nil {
		return nil, fmt.Errorf("export meals: %w", err)
	}
	if snap.WaterLogs, err = s.water.ListByUser(ctx, account.AccountID, ""); err != nil {
		return nil, fmt.Errorf("export water logs: %w", err)
	}
	if snap.ShoppingItems, err = s.shopping.ListByUser(ctx, account.AccountID, domain.ShoppingFilter{}); err != nil {
		return nil, fmt.Errorf("export shopping items: %w", err)
	}
	snap.Workouts = orEmpty(snap.Workouts)
	snap.Meals = orEmpty(snap.Meals)
	snap.WaterLogs = orEmpty(snap.WaterLogs)
	snap.ShoppingItems = orEmpty(snap.ShoppingItems)

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	key := Key(account.AccountID, id.NewAt(now))
	loc, err := s.store.Upload(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	res := &domain.ExportResult{
		Location:      loc,
		ExportedAt:    now,
		Workouts:      len(snap.Workouts),
		Meals:         len(snap.Meals),
		WaterLogs:     len(snap.WaterLogs),
		ShoppingItems: len(snap.ShoppingItems),
	}
	if url, err := s.store.PresignedURL(ctx, key, downloadTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("presign export failed")
	} else {
		res.DownloadURL = url
	}
	zerolog.Ctx(ctx).Info().Str("account_id", account.AccountID).Str("location", loc).Msg("account exported")
	return res, nil
}

// orEmpty keeps empty collections as [] rather than null in the snapshot.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Key is the object key of one export.
func Key(accountID, exportID string) string {
	return "exports/" + accountID + "/" + exportID + ".json"
}
