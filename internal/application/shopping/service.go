package shopping

import (
	"context"
	"sort"
	"time"

	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName        = "name"
	fieldQuantity    = "quantity"
	fieldCategory    = "category"
	fieldNotes       = "notes"
	fieldIsPurchased = "is_purchased"
)

type Service interface {
	// List returns items ordered pending first, then by category, then newest first.
	List(ctx context.Context, userID string, f domain.ShoppingFilter) ([]domain.ShoppingItem, error)
	Create(ctx context.Context, userID string, req domain.CreateShoppingItemRequest) (*domain.ShoppingItem, error)
	CreateMany(ctx context.Context, userID string, reqs []domain.CreateShoppingItemRequest) ([]domain.ShoppingItem, error)
	Summary(ctx context.Context, userID string) (*domain.ShoppingListSummary, error)
	Get(ctx context.Context, userID, itemID string) (*domain.ShoppingItem, error)
	Update(ctx context.Context, userID, itemID string, req domain.UpdateShoppingItemRequest) (*domain.ShoppingItem, error)
	Toggle(ctx context.Context, userID, itemID string) (*domain.ShoppingItem, error)
	Delete(ctx context.Context, userID, itemID string) error
	// ClearPurchased deletes every purchased item and reports how many were removed.
	ClearPurchased(ctx context.Context, userID string) (int, error)
}

type itemStore interface {
	Put(ctx context.Context, item *domain.ShoppingItem) error
	PutMany(ctx context.Context, items []domain.ShoppingItem) error
	Get(ctx context.Context, userID, itemID string) (*domain.ShoppingItem, error)
	Update(ctx context.Context, userID, itemID string, updates map[string]interface{}) (*domain.ShoppingItem, error)
	Delete(ctx context.Context, userID, itemID string) error
	DeleteMany(ctx context.Context, userID string, itemIDs []string) error
	ListByUser(ctx context.Context, userID string, f domain.ShoppingFilter) ([]domain.ShoppingItem, error)
}

type service struct {
	repo itemStore
	now  func() time.Time
}

type ServiceDeps struct {
	ShoppingRepo itemStore
	Now          func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.ShoppingRepo, now: now}
}

var categoryRank = func() map[string]int {
	m := make(map[string]int, len(domain.ShoppingCategories))
	for i, c := range domain.ShoppingCategories {
		m[c] = i
	}
	return m
}()

func (s *service) List(ctx context.Context, userID string, f domain.ShoppingFilter) ([]domain.ShoppingItem, error) {
	items, err := s.repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsPurchased != b.IsPurchased {
			return !a.IsPurchased
		}
		if a.Category != b.Category {
			return categoryRank[a.Category] < categoryRank[b.Category]
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return items, nil
}

func (s *service) newItem(userID string, req domain.CreateShoppingItemRequest, now time.Time) domain.ShoppingItem {
	item := domain.ShoppingItem{
		ItemID:    id.NewAt(now),
		UserID:    userID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Category:  req.Category,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if item.Category == "" {
		item.Category = domain.CategoryOther
	}
	return item
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateShoppingItemRequest) (*domain.ShoppingItem, error) {
	item := s.newItem(userID, req, s.now().UTC())
	if err := s.repo.Put(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *service) CreateMany(ctx context.Context, userID string, reqs []domain.CreateShoppingItemRequest) ([]domain.ShoppingItem, error) {
	now := s.now().UTC()
	items := make([]domain.ShoppingItem, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, s.newItem(userID, req, now))
	}
	if len(items) == 0 {
		return items, nil
	}
	if err := s.repo.PutMany(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Summary(ctx context.Context, userID string) (*domain.ShoppingListSummary, error) {
	items, err := s.repo.ListByUser(ctx, userID, domain.ShoppingFilter{})
	if err != nil {
		return nil, err
	}
	sum := &domain.ShoppingListSummary{TotalItems: len(items), ItemsByCategory: map[string]int{}}
	for _, it := range items {
		if it.IsPurchased {
			sum.PurchasedItems++
			continue
		}
		sum.ItemsByCategory[it.Category]++
	}
	sum.PendingItems = sum.TotalItems - sum.PurchasedItems
	return sum, nil
}

func (s *service) Get(ctx context.Context, userID, itemID string) (*domain.ShoppingItem, error) {
	return s.repo.Get(ctx, userID, itemID)
}

func (s *service) Update(ctx context.Context, userID, itemID string, req domain.UpdateShoppingItemRequest) (*domain.ShoppingItem, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Quantity != nil {
		updates[fieldQuantity] = *req.Quantity
	}
	if req.Category != nil {
		updates[fieldCategory] = *req.Category
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if req.IsPurchased != nil {
		updates[fieldIsPurchased] = *req.IsPurchased
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID, itemID)
	}
	return s.repo.Update(ctx, userID, itemID, updates)
}

func (s *service) Toggle(ctx context.Context, userID, itemID string) (*domain.ShoppingItem, error) {
	item, err := s.repo.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, itemID, map[string]interface{}{fieldIsPurchased: !item.IsPurchased})
}

func (s *service) Delete(ctx context.Context, userID, itemID string) error {
	return s.repo.Delete(ctx, userID, itemID)
}

func (s *service) ClearPurchased(ctx context.Context, userID string) (int, error) {
	purchased := true
	items, err := s.repo.ListByUser(ctx, userID, domain.ShoppingFilter{Purchased: &purchased})
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ItemID
	}
	if err := s.repo.DeleteMany(ctx, userID, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
