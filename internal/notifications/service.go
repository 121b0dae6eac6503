package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

// Service defines notification publish, list and read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, customerID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, customerID uuid.UUID) (int64, error)

	// NotifyPurchase addresses a single customer after checkout completes.
	NotifyPurchase(ctx context.Context, customerID, purchaseID uuid.UUID, total, points int) error
	// NotifyRedemption addresses a single customer after a point redemption.
	NotifyRedemption(ctx context.Context, customerID uuid.UUID, points, cashAmount int) error
	// BroadcastPromotion addresses every customer when a promotion goes live.
	BroadcastPromotion(ctx context.Context, promotionID uuid.UUID, title string) error
	// NotifyFeedbackResponse addresses the author of a feedback entry.
	NotifyFeedbackResponse(ctx context.Context, customerID, feedbackID uuid.UUID) error
}

type service struct {
	repo Repository
}

// ListParams configures pagination for notifications.
type ListParams struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	query := listNotificationsParams{
		CustomerID: params.CustomerID,
		Limit:      pagination.LimitWithBuffer(params.Limit),
		UnreadOnly: params.UnreadOnly,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) MarkRead(ctx context.Context, customerID, notificationID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, customerID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if customerID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	count, err := s.repo.MarkAllRead(ctx, customerID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) NotifyPurchase(ctx context.Context, customerID, purchaseID uuid.UUID, total, points int) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if purchaseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	message := fmt.Sprintf("Thanks for shopping! Your Rp%d purchase is recorded.", total)
	if points > 0 {
		message = fmt.Sprintf("Thanks for shopping! Your Rp%d purchase earned %d points.", total, points)
	}
	link := "/purchases/" + purchaseID.String()
	return s.repo.Create(ctx, &models.Notification{
		CustomerID: &customerID,
		Type:       enums.NotificationTypePurchase,
		Title:      "Purchase complete",
		Message:    message,
		Link:       &link,
	})
}

func (s *service) NotifyRedemption(ctx context.Context, customerID uuid.UUID, points, cashAmount int) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.repo.Create(ctx, &models.Notification{
		CustomerID: &customerID,
		Type:       enums.NotificationTypeRedemption,
		Title:      "Points redeemed",
		Message:    fmt.Sprintf("You exchanged %d points for Rp%d of store balance.", points, cashAmount),
	})
}

func (s *service) BroadcastPromotion(ctx context.Context, promotionID uuid.UUID, title string) error {
	if promotionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	link := "/promotions/" + promotionID.String()
	return s.repo.Create(ctx, &models.Notification{
		Type:    enums.NotificationTypePromotion,
		Title:   "New promotion",
		Message: title,
		Link:    &link,
	})
}

func (s *service) NotifyFeedbackResponse(ctx context.Context, customerID, feedbackID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	link := "/feedback/" + feedbackID.String()
	return s.repo.Create(ctx, &models.Notification{
		CustomerID: &customerID,
		Type:       enums.NotificationTypeFeedback,
		Title:      "We replied to your feedback",
		Message:    "A staff member responded to your feedback.",
		Link:       &link,
	})
}
