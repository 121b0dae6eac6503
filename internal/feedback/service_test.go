package feedback

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type stubRepo struct {
	feedback   *models.Feedback
	faq        *models.FAQEntry
	deleteRows int64
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateFeedback(ctx context.Context, entry *models.Feedback) error {
	entry.ID = uuid.New()
	s.feedback = entry
	return nil
}

func (s *stubRepo) FindFeedbackByID(ctx context.Context, feedbackID uuid.UUID) (*models.Feedback, error) {
	if s.feedback == nil || s.feedback.ID != feedbackID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.feedback
	return &copied, nil
}

func (s *stubRepo) UpdateFeedback(ctx context.Context, entry *models.Feedback) error {
	s.feedback = entry
	return nil
}

func (s *stubRepo) ListFeedback(ctx context.Context, params listFeedbackParams) ([]models.Feedback, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubRepo) CreateFAQ(ctx context.Context, entry *models.FAQEntry) error {
	entry.ID = uuid.New()
	s.faq = entry
	return nil
}

func (s *stubRepo) FindFAQByID(ctx context.Context, faqID uuid.UUID) (*models.FAQEntry, error) {
	if s.faq == nil || s.faq.ID != faqID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.faq, nil
}

func (s *stubRepo) UpdateFAQ(ctx context.Context, entry *models.FAQEntry) error { return nil }

func (s *stubRepo) DeleteFAQ(ctx context.Context, faqID uuid.UUID) (int64, error) {
	return s.deleteRows, nil
}

func (s *stubRepo) ListFAQ(ctx context.Context, publishedOnly bool) ([]models.FAQEntry, error) {
	return nil, nil
}

type stubNotifier struct {
	calls int
}

func (s *stubNotifier) NotifyFeedbackResponse(ctx context.Context, customerID, feedbackID uuid.UUID) error {
	s.calls++
	return nil
}

func newTestService(t *testing.T, repo Repository, notifier responseNotifier) Service {
	t.Helper()
	logg := logger.New(logger.Options{Output: io.Discard})
	svc, err := NewService(repo, notifier, logg)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func TestSubmitRequiresContent(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, nil)

	if _, err := svc.Submit(context.Background(), uuid.New(), SubmitInput{Subject: " ", Message: "hi"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank subject, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), uuid.New(), SubmitInput{Subject: "hi", Message: ""}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank message, got %v", err)
	}
}

func TestSubmitOpensFeedback(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, nil)

	entry, err := svc.Submit(context.Background(), uuid.New(), SubmitInput{Subject: "Checkout", Message: "The queue was long."})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if entry.Status != enums.FeedbackStatusOpen {
		t.Fatalf("expected open status, got %s", entry.Status)
	}
}

func TestRespondMarksAndNotifies(t *testing.T) {
	customerID := uuid.New()
	repo := &stubRepo{feedback: &models.Feedback{
		ID:         uuid.New(),
		CustomerID: customerID,
		Subject:    "Checkout",
		Message:    "The queue was long.",
		Status:     enums.FeedbackStatusOpen,
	}}
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, notifier)

	entry, err := svc.Respond(context.Background(), repo.feedback.ID, "We added two more lanes.")
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if entry.Status != enums.FeedbackStatusResponded {
		t.Fatalf("expected responded status, got %s", entry.Status)
	}
	if entry.Response == nil || entry.RespondedAt == nil {
		t.Fatal("expected response fields to be set")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one notification, got %d", notifier.calls)
	}
}

func TestRespondUnknownFeedback(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, nil)
	_, err := svc.Respond(context.Background(), uuid.New(), "reply")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateFAQValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, nil)
	_, err := svc.CreateFAQ(context.Background(), FAQInput{Question: "", Answer: "yes"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteFAQNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{deleteRows: 0}, nil)
	err := svc.DeleteFAQ(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
