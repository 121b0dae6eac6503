package customers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/internal/membership"
	"github.com/freshmart/freshmart-backend/internal/purchases"
	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type purchaseReader interface {
	PurchaseTimestamps(ctx context.Context, customerID uuid.UUID, since time.Time) ([]time.Time, error)
	CategoryQuantities(ctx context.Context, customerID uuid.UUID) ([]purchases.CategoryQuantityRow, error)
}

// Service exposes customer profile and admin directory operations.
type Service interface {
	// Profile returns the customer record with the tier and favorite
	// category computed from the purchase history. Neither is ever stored.
	Profile(ctx context.Context, customerID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	Register(ctx context.Context, input RegisterInput) (*models.Customer, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// ProfileDTO is the customer profile with derived membership fields.
type ProfileDTO struct {
	Customer         models.Customer        `json:"customer"`
	Tier             enums.MembershipTier   `json:"tier"`
	FavoriteCategory *enums.ProductCategory `json:"favorite_category,omitempty"`
}

// UpdateProfileInput holds optional mutation values for a profile.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
}

// RegisterInput holds the payload to enroll a new member.
type RegisterInput struct {
	Email    string
	FullName string
	Phone    *string
}

// ListParams configures pagination and search for the admin directory.
type ListParams struct {
	Query  string
	Limit  int
	Cursor string
}

// ListResult wraps returned customers and the cursor for the next page.
type ListResult struct {
	Items  []models.Customer `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	repo       Repository
	purchases  purchaseReader
	thresholds membership.Thresholds
}

// NewService wires the customer service.
func NewService(repo Repository, purchaseRepo purchaseReader, thresholds membership.Thresholds) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "customer repository required")
	}
	if purchaseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "purchase reader required")
	}
	return &service{
		repo:       repo,
		purchases:  purchaseRepo,
		thresholds: thresholds,
	}, nil
}

func (s *service) Profile(ctx context.Context, customerID uuid.UUID) (*ProfileDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return s.buildProfile(ctx, customer)
}

func (s *service) buildProfile(ctx context.Context, customer *models.Customer) (*ProfileDTO, error) {
	now := time.Now().UTC()

	// Classification only looks inside the inactive window; older purchases
	// cannot change the outcome.
	since := now.Add(-s.thresholds.InactiveWindow)
	if customer.JoinedAt.After(since) {
		since = customer.JoinedAt
	}
	timestamps, err := s.purchases.PurchaseTimestamps(ctx, customer.ID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase history")
	}

	// A customer who joined long ago but only has purchases outside the
	// window must not classify as New, so report history presence too.
	if len(timestamps) == 0 {
		all, err := s.purchases.PurchaseTimestamps(ctx, customer.ID, time.Time{})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase history")
		}
		timestamps = all
	}

	tier, err := membership.Classify(customer.JoinedAt, timestamps, now, s.thresholds)
	if err != nil {
		return nil, err
	}

	rows, err := s.purchases.CategoryQuantities(ctx, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category totals")
	}
	items := make([]membership.CategoryQuantity, 0, len(rows))
	for _, row := range rows {
		category := enums.ProductCategory(row.Category)
		if !category.IsValid() {
			continue
		}
		items = append(items, membership.CategoryQuantity{Category: category, Quantity: row.Quantity})
	}

	profile := &ProfileDTO{Customer: *customer, Tier: tier}
	if favorite, ok := membership.FavoriteCategory(items); ok {
		profile.FavoriteCategory = &favorite
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		customer.FullName = *input.FullName
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.buildProfile(ctx, customer)
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Customer, error) {
	if input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if input.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	customer := &models.Customer{
		Email:    input.Email,
		FullName: input.FullName,
		Phone:    input.Phone,
		JoinedAt: time.Now().UTC(),
		IsActive: true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listCustomersParams{
		Query: params.Query,
		Limit: pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}
