package controllers

import (
	"net/http"

	"github.com/freshmart/freshmart-backend/api/responses"
	"github.com/freshmart/freshmart-backend/api/validators"
	feedbacksvc "github.com/freshmart/freshmart-backend/internal/feedback"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
)

// ListFAQs serves published entries on the public help page.
func ListFAQs(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		entries, err := svc.PublishedFAQ(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": entries})
	}
}

// ListAllFAQs includes unpublished drafts for the admin surface.
func ListAllFAQs(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		entries, err := svc.AllFAQ(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": entries})
	}
}

type faqRequest struct {
	Question    string `json:"question" validate:"required,max=500"`
	Answer      string `json:"answer" validate:"required,max=4000"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
	IsPublished bool   `json:"is_published"`
}

func (r faqRequest) toInput() feedbacksvc.FAQInput {
	return feedbacksvc.FAQInput{
		Question:    validators.SanitizeString(r.Question, 500),
		Answer:      validators.SanitizeString(r.Answer, 4000),
		SortOrder:   r.SortOrder,
		IsPublished: r.IsPublished,
	}
}

func CreateFAQ(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		var payload faqRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.CreateFAQ(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func UpdateFAQ(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		faqID, err := validators.ParseUUIDParam(r, "faqId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload faqRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.UpdateFAQ(r.Context(), faqID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

func DeleteFAQ(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		faqID, err := validators.ParseUUIDParam(r, "faqId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteFAQ(r.Context(), faqID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
