package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type responseNotifier interface {
	NotifyFeedbackResponse(ctx context.Context, customerID, feedbackID uuid.UUID) error
}

// Service exposes customer feedback and FAQ operations.
type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.Feedback, error)
	Respond(ctx context.Context, feedbackID uuid.UUID, response string) (*models.Feedback, error)
	Archive(ctx context.Context, feedbackID uuid.UUID) error
	List(ctx context.Context, params ListParams) (*ListResult, error)

	CreateFAQ(ctx context.Context, input FAQInput) (*models.FAQEntry, error)
	UpdateFAQ(ctx context.Context, faqID uuid.UUID, input FAQInput) (*models.FAQEntry, error)
	DeleteFAQ(ctx context.Context, faqID uuid.UUID) error
	// PublishedFAQ lists the entries shown on the public help page.
	PublishedFAQ(ctx context.Context) ([]models.FAQEntry, error)
	AllFAQ(ctx context.Context) ([]models.FAQEntry, error)
}

// SubmitInput holds a new feedback message.
type SubmitInput struct {
	Subject string
	Message string
}

// FAQInput holds a question/answer pair.
type FAQInput struct {
	Question    string
	Answer      string
	SortOrder   int
	IsPublished bool
}

// ListParams filters the feedback inbox.
type ListParams struct {
	CustomerID *uuid.UUID
	Status     *enums.FeedbackStatus
	Limit      int
	Cursor     string
}

// ListResult wraps returned feedback and the cursor for the next page.
type ListResult struct {
	Items  []models.Feedback `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	repo     Repository
	notifier responseNotifier
	logg     *logger.Logger
}

// NewService wires the feedback service. The notifier is optional.
func NewService(repo Repository, notifier responseNotifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "feedback repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, notifier: notifier, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.Feedback, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	entry := &models.Feedback{
		CustomerID: customerID,
		Subject:    strings.TrimSpace(input.Subject),
		Message:    strings.TrimSpace(input.Message),
		Status:     enums.FeedbackStatusOpen,
	}
	if err := s.repo.CreateFeedback(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create feedback")
	}
	return entry, nil
}

func (s *service) Respond(ctx context.Context, feedbackID uuid.UUID, response string) (*models.Feedback, error) {
	if feedbackID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feedback id required")
	}
	if strings.TrimSpace(response) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response required")
	}

	entry, err := s.repo.FindFeedbackByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "feedback not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load feedback")
	}

	now := time.Now().UTC()
	trimmed := strings.TrimSpace(response)
	entry.Response = &trimmed
	entry.RespondedAt = &now
	entry.Status = enums.FeedbackStatusResponded

	if err := s.repo.UpdateFeedback(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update feedback")
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyFeedbackResponse(ctx, entry.CustomerID, entry.ID); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "feedback_id", entry.ID.String()), "feedback response notification failed")
		}
	}
	return entry, nil
}

func (s *service) Archive(ctx context.Context, feedbackID uuid.UUID) error {
	entry, err := s.repo.FindFeedbackByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "feedback not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load feedback")
	}

	entry.Status = enums.FeedbackStatusArchived
	if err := s.repo.UpdateFeedback(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive feedback")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	query := listFeedbackParams{
		CustomerID: params.CustomerID,
		Status:     params.Status,
		Limit:      pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListFeedback(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) CreateFAQ(ctx context.Context, input FAQInput) (*models.FAQEntry, error) {
	if err := validateFAQ(input); err != nil {
		return nil, err
	}

	entry := &models.FAQEntry{
		Question:    strings.TrimSpace(input.Question),
		Answer:      strings.TrimSpace(input.Answer),
		SortOrder:   input.SortOrder,
		IsPublished: input.IsPublished,
	}
	if err := s.repo.CreateFAQ(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create faq entry")
	}
	return entry, nil
}

func (s *service) UpdateFAQ(ctx context.Context, faqID uuid.UUID, input FAQInput) (*models.FAQEntry, error) {
	if err := validateFAQ(input); err != nil {
		return nil, err
	}

	entry, err := s.repo.FindFAQByID(ctx, faqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "faq entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load faq entry")
	}

	entry.Question = strings.TrimSpace(input.Question)
	entry.Answer = strings.TrimSpace(input.Answer)
	entry.SortOrder = input.SortOrder
	entry.IsPublished = input.IsPublished

	if err := s.repo.UpdateFAQ(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update faq entry")
	}
	return entry, nil
}

func (s *service) DeleteFAQ(ctx context.Context, faqID uuid.UUID) error {
	if faqID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "faq id required")
	}
	rows, err := s.repo.DeleteFAQ(ctx, faqID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete faq entry")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "faq entry not found")
	}
	return nil
}

func (s *service) PublishedFAQ(ctx context.Context) ([]models.FAQEntry, error) {
	entries, err := s.repo.ListFAQ(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faq entries")
	}
	return entries, nil
}

func (s *service) AllFAQ(ctx context.Context) ([]models.FAQEntry, error) {
	entries, err := s.repo.ListFAQ(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faq entries")
	}
	return entries, nil
}

func validateFAQ(input FAQInput) error {
	if strings.TrimSpace(input.Question) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "question required")
	}
	if strings.TrimSpace(input.Answer) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "answer required")
	}
	return nil
}
