package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/freshmart/freshmart-backend/internal/checkout"
	"github.com/freshmart/freshmart-backend/pkg/enums"
)

type testCheckoutService struct {
	quoteFn    func(ctx context.Context, customerID uuid.UUID, lines []checkoutsvc.CartLine) (*checkoutsvc.QuoteResult, error)
	checkoutFn func(ctx context.Context, customerID uuid.UUID, lines []checkoutsvc.CartLine) (*checkoutsvc.CheckoutResult, error)
}

func (s *testCheckoutService) Quote(ctx context.Context, customerID uuid.UUID, lines []checkoutsvc.CartLine) (*checkoutsvc.QuoteResult, error) {
	if s.quoteFn != nil {
		return s.quoteFn(ctx, customerID, lines)
	}
	return &checkoutsvc.QuoteResult{}, nil
}

func (s *testCheckoutService) Checkout(ctx context.Context, customerID uuid.UUID, lines []checkoutsvc.CartLine) (*checkoutsvc.CheckoutResult, error) {
	if s.checkoutFn != nil {
		return s.checkoutFn(ctx, customerID, lines)
	}
	return &checkoutsvc.CheckoutResult{}, nil
}

func TestQuoteCartSuccess(t *testing.T) {
	customerID := uuid.New()
	productID := uuid.New()
	svc := &testCheckoutService{
		quoteFn: func(ctx context.Context, cid uuid.UUID, lines []checkoutsvc.CartLine) (*checkoutsvc.QuoteResult, error) {
			if cid != customerID {
				t.Fatalf("unexpected customer %s", cid)
			}
			if len(lines) != 1 || lines[0].ProductID != productID || lines[0].Quantity != 2 {
				t.Fatalf("unexpected lines %+v", lines)
			}
			return &checkoutsvc.QuoteResult{Total: 63000, Tier: enums.MembershipTierActive}, nil
		},
	}

	body := `{"lines":[{"product_id":"` + productID.String() + `","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(body))
	req = withCustomer(req, customerID)
	resp := httptest.NewRecorder()
	handler := QuoteCart(svc, testLogger())
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data checkoutsvc.QuoteResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Total != 63000 {
		t.Fatalf("expected total 63000 got %d", envelope.Data.Total)
	}
}

func TestQuoteCartRejectsEmptyLines(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(`{"lines":[]}`))
	req = withCustomer(req, uuid.New())
	resp := httptest.NewRecorder()
	handler := QuoteCart(&testCheckoutService{}, testLogger())
	handler(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutCreated(t *testing.T) {
	customerID := uuid.New()
	productID := uuid.New()
	svc := &testCheckoutService{
		checkoutFn: func(ctx context.Context, cid uuid.UUID, lines []checkoutsvc.CartLine) (*checkoutsvc.CheckoutResult, error) {
			return &checkoutsvc.CheckoutResult{PointsEarned: 8}, nil
		},
	}

	body := `{"lines":[{"product_id":"` + productID.String() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = withCustomer(req, customerID)
	resp := httptest.NewRecorder()
	handler := Checkout(svc, testLogger())
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data checkoutsvc.CheckoutResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.PointsEarned != 8 {
		t.Fatalf("expected 8 points got %d", envelope.Data.PointsEarned)
	}
}

func TestCheckoutMissingCustomer(t *testing.T) {
	body := `{"lines":[{"product_id":"` + uuid.NewString() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler := Checkout(&testCheckoutService{}, testLogger())
	handler(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
