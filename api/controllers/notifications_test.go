package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/api/middleware"
	notificationsvc "github.com/freshmart/freshmart-backend/internal/notifications"
	"github.com/freshmart/freshmart-backend/pkg/logger"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notificationsvc.ListParams) (*notificationsvc.ListResult, error)
	markReadFn    func(ctx context.Context, customerID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, customerID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notificationsvc.ListParams) (*notificationsvc.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notificationsvc.ListResult{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, customerID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, customerID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, customerID)
	}
	return 0, nil
}

func (s *testNotificationsService) NotifyPurchase(ctx context.Context, customerID, purchaseID uuid.UUID, total, points int) error {
	return nil
}

func (s *testNotificationsService) NotifyRedemption(ctx context.Context, customerID uuid.UUID, points, cashAmount int) error {
	return nil
}

func (s *testNotificationsService) BroadcastPromotion(ctx context.Context, promotionID uuid.UUID, title string) error {
	return nil
}

func (s *testNotificationsService) NotifyFeedbackResponse(ctx context.Context, customerID, feedbackID uuid.UUID) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withCustomer(req *http.Request, customerID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	customerID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, cid, nid uuid.UUID) error {
			called = true
			if cid != customerID {
				t.Fatalf("unexpected customer %s", cid)
			}
			if nid != notificationID {
				t.Fatalf("unexpected notification %s", nid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = withCustomer(req, customerID)
	req = addRouteParam(req, "notificationId", notificationID.String())

	resp := httptest.NewRecorder()
	handler := MarkNotificationRead(svc, testLogger())
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["read"] {
		t.Fatal("response missing read flag")
	}
}

func TestMarkNotificationReadMissingCustomer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+uuid.NewString()+"/read", nil)
	req = addRouteParam(req, "notificationId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler := MarkNotificationRead(&testNotificationsService{}, testLogger())
	handler(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/invalid/read", nil)
	req = withCustomer(req, uuid.New())
	req = addRouteParam(req, "notificationId", "invalid")
	resp := httptest.NewRecorder()
	handler := MarkNotificationRead(&testNotificationsService{}, testLogger())
	handler(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkAllNotificationsReadSuccess(t *testing.T) {
	customerID := uuid.New()
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, cid uuid.UUID) (int64, error) {
			if cid != customerID {
				t.Fatalf("unexpected customer %s", cid)
			}
			return 5, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	req = withCustomer(req, customerID)
	resp := httptest.NewRecorder()
	handler := MarkAllNotificationsRead(svc, testLogger())
	handler(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["updated"] != 5 {
		t.Fatalf("expected updated=5 got %v", envelope.Data["updated"])
	}
}

func TestListNotificationsPassesFilters(t *testing.T) {
	customerID := uuid.New()
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notificationsvc.ListParams) (*notificationsvc.ListResult, error) {
			if params.CustomerID != customerID {
				t.Fatalf("unexpected customer %s", params.CustomerID)
			}
			if params.Limit != 5 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if !params.UnreadOnly {
				t.Fatal("expected unreadOnly filter")
			}
			return &notificationsvc.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=5&unreadOnly=true", nil)
	req = withCustomer(req, customerID)
	resp := httptest.NewRecorder()
	handler := ListNotifications(svc, testLogger())
	handler(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
