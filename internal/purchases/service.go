package purchases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

// Service exposes the purchase history surface.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	// Get returns one purchase, enforcing that it belongs to the customer.
	Get(ctx context.Context, customerID, purchaseID uuid.UUID) (*models.Purchase, error)
	// Invoice renders the tax invoice for one of the customer's purchases.
	Invoice(ctx context.Context, customerID, purchaseID uuid.UUID) (*Invoice, error)
}

// ListParams configures pagination for purchase history.
type ListParams struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     string
}

// ListResult wraps returned purchases and the cursor for the next page.
type ListResult struct {
	Items  []models.Purchase `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	repo Repository
}

// NewService wires the purchase history service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "purchases repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	query := ListQuery{
		CustomerID: params.CustomerID,
		Limit:      pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListByCustomer(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Get(ctx context.Context, customerID, purchaseID uuid.UUID) (*models.Purchase, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if purchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}

	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	if purchase.CustomerID != customerID {
		// Hide other customers' purchases.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
	}
	return purchase, nil
}

func (s *service) Invoice(ctx context.Context, customerID, purchaseID uuid.UUID) (*Invoice, error) {
	purchase, err := s.Get(ctx, customerID, purchaseID)
	if err != nil {
		return nil, err
	}
	return BuildInvoice(purchase)
}
