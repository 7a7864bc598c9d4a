package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/middleware"
)

func withSlug(req *http.Request, slug string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", slug)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateDashboardSuccess(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	body := `{"slug":"sales","name":"Sales","visibility":"public"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = req.WithContext(middleware.WithUID(req.Context(), "uid-123"))
	rr := httptest.NewRecorder()

	h.CreateDashboard(rr, req)

	if svc.uid != "uid-123" {
		t.Fatalf("service received wrong uid: %q", svc.uid)
	}
	if svc.createReq.Slug != "sales" || svc.createReq.Visibility != "public" {
		t.Fatalf("service received wrong request: %+v", svc.createReq)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("WriteSuccess not called with status 201")
	}
}

func TestCreateDashboardInvalidJSON(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	h.CreateDashboard(rr, req)

	if svc.createReq.Slug != "" {
		t.Fatal("service should not be called when JSON is invalid")
	}
	if !resp.handleErrorCalled || resp.handleError == nil {
		t.Fatal("HandleError should receive the decode error")
	}
}

func TestGetDashboardPassesPasswordHeader(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := withSlug(httptest.NewRequest(http.MethodGet, "/sales", nil), "sales")
	req.Header.Set(dto.DashboardPasswordHeader, "s3cret")
	rr := httptest.NewRecorder()
	h.GetDashboard(rr, req)

	if svc.slug != "sales" || svc.password != "s3cret" {
		t.Fatalf("expected slug and password forwarded, got slug=%q password=%q", svc.slug, svc.password)
	}
	if svc.uid != "" {
		t.Fatalf("expected anonymous uid, got %q", svc.uid)
	}
	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
}

func TestDeleteDashboardServiceError(t *testing.T) {
	svc := &stubDashboardService{err: errors.New("boom")}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := withSlug(httptest.NewRequest(http.MethodDelete, "/sales", nil), "sales")
	rr := httptest.NewRecorder()
	h.DeleteDashboard(rr, req)

	if !resp.handleErrorCalled || !errors.Is(resp.handleError, svc.err) {
		t.Fatalf("expected service error delegated, got %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatal("WriteSuccess should not be called on service error")
	}
}

func TestUpdateLayoutDecodesItems(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	body := `{"layout":[{"i":"a","x":0,"y":0,"w":6,"h":4,"minW":2,"minH":2},{"i":"b","x":0,"y":0,"w":6,"h":4,"minW":2,"minH":2}]}`
	req := withSlug(httptest.NewRequest(http.MethodPut, "/sales/layout", strings.NewReader(body)), "sales")
	rr := httptest.NewRecorder()
	h.UpdateLayout(rr, req)

	if len(svc.layoutReq.Layout) != 2 || svc.layoutReq.Layout[1].I != "b" {
		t.Fatalf("unexpected layout request: %+v", svc.layoutReq)
	}
	out, ok := resp.writeSuccessData.(dto.UpdateLayoutResponse)
	if !ok || len(out.Updated) != 2 {
		t.Fatalf("unexpected response data: %#v", resp.writeSuccessData)
	}
}
