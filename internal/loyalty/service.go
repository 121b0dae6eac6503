package loyalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/config"
	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier receives redemption events for customer messaging. Delivery is
// best effort; failures never roll back a redemption.
type Notifier interface {
	NotifyRedemption(ctx context.Context, customerID uuid.UUID, points, cashAmount int) error
}

// Service defines the point ledger operations.
type Service interface {
	// Redeem exchanges points for cash balance. The balance check and the
	// debit happen in one guarded update so concurrent redemptions cannot
	// overdraw the balance.
	Redeem(ctx context.Context, customerID uuid.UUID, points int) (*RedeemResult, error)
	// Accrue awards points for a completed purchase inside the caller's
	// transaction. Returns the points awarded, which may be zero.
	Accrue(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, purchaseID uuid.UUID, total int) (int, error)
	History(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.PointLedgerEntry, error)
}

// RedeemResult reports the outcome of a successful redemption.
type RedeemResult struct {
	Points       int `json:"points"`
	CashAmount   int `json:"cash_amount"`
	PointBalance int `json:"point_balance"`
	CashBalance  int `json:"cash_balance"`
}

type service struct {
	repo     Repository
	tx       txRunner
	cfg      config.PointsConfig
	metrics  *metrics.LedgerMetrics
	notifier Notifier
	logg     *logger.Logger
}

// NewService wires the loyalty service. Metrics and notifier are optional.
func NewService(
	repo Repository,
	tx txRunner,
	cfg config.PointsConfig,
	met *metrics.LedgerMetrics,
	notifier Notifier,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		cfg:      cfg,
		metrics:  met,
		notifier: notifier,
		logg:     logg,
	}, nil
}

func (s *service) Redeem(ctx context.Context, customerID uuid.UUID, points int) (*RedeemResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveDuration("redeem", time.Since(start))
	}()

	result, err := s.redeem(ctx, customerID, points)
	if err != nil {
		s.metrics.IncFailure("redeem")
		return nil, err
	}
	s.metrics.IncSuccess("redeem")

	if s.notifier != nil {
		if notifyErr := s.notifier.NotifyRedemption(ctx, customerID, result.Points, result.CashAmount); notifyErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "customer_id", customerID.String()), "redemption notification failed")
		}
	}
	return result, nil
}

func (s *service) redeem(ctx context.Context, customerID uuid.UUID, points int) (*RedeemResult, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if points <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points must be a positive integer")
	}
	if points < s.cfg.MinRedeem {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("redemption requires at least %d points", s.cfg.MinRedeem))
	}

	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	if points > customer.PointBalance {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient point balance")
	}

	cashAmount := RedemptionCash(points, s.cfg.RedeemRate)

	var result *RedeemResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.DebitPoints(ctx, customerID, points, cashAmount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debiting points")
		}
		if rows == 0 {
			// The balance moved between the read and the update.
			return pkgerrors.New(pkgerrors.CodeConflict, "point balance changed, retry the redemption")
		}

		updated, err := repo.GetCustomer(ctx, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading customer")
		}

		entry := &models.PointLedgerEntry{
			CustomerID:   customerID,
			Type:         enums.PointEventTypeRedemption,
			Points:       points,
			CashAmount:   cashAmount,
			BalanceAfter: updated.PointBalance,
		}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording redemption")
		}

		result = &RedeemResult{
			Points:       points,
			CashAmount:   cashAmount,
			PointBalance: updated.PointBalance,
			CashBalance:  updated.CashBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Accrue(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, purchaseID uuid.UUID, total int) (int, error) {
	if customerID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if purchaseID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "purchase id is required")
	}

	points, err := AccruedPoints(total, s.cfg.AccrualDivisor)
	if err != nil {
		return 0, err
	}
	if points == 0 {
		return 0, nil
	}

	repo := s.repo.WithTx(tx)
	if err := repo.CreditPoints(ctx, customerID, points); err != nil {
		s.metrics.IncFailure("accrue")
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "crediting points")
	}

	updated, err := repo.GetCustomer(ctx, customerID)
	if err != nil {
		s.metrics.IncFailure("accrue")
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading customer")
	}

	entry := &models.PointLedgerEntry{
		CustomerID:   customerID,
		PurchaseID:   &purchaseID,
		Type:         enums.PointEventTypeAccrual,
		Points:       points,
		BalanceAfter: updated.PointBalance,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		s.metrics.IncFailure("accrue")
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording accrual")
	}

	s.metrics.IncSuccess("accrue")
	return points, nil
}

func (s *service) History(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.PointLedgerEntry, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	entries, err := s.repo.ListEntries(ctx, customerID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing ledger entries")
	}
	return entries, nil
}
