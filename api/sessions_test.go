package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecotrip/orchestrator/domain"
)

func TestGetSessionNotFound(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/absent", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("absent")

	if err := h.GetSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetSessionSuccess(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t)

	sess := domain.NewSession("api-get", "u1")
	sess.ConversationHistory = []domain.Turn{{Role: domain.RoleUser, Message: "Hello!"}}
	if err := st.Put(context.Background(), sess); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/api-get", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("api-get")

	if err := h.GetSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got domain.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode session failed: %v", err)
	}
	if got.SessionID != "api-get" || len(got.ConversationHistory) != 1 {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestClearSessionResets(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t)

	sess := domain.NewSession("api-clear", "u1")
	sess.ConversationHistory = []domain.Turn{{Role: domain.RoleUser, Message: "Singapore please"}}
	dest := "Singapore"
	sess.Requirements.DestinationCity = &dest
	if err := st.Put(context.Background(), sess); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/api-clear", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("api-clear")

	if err := h.ClearSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["status"] != "cleared" || body["session_id"] != "api-clear" {
		t.Fatalf("unexpected body: %+v", body)
	}

	got, err := st.Get(context.Background(), "api-clear")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected session to remain addressable after clear")
	}
	if len(got.ConversationHistory) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(got.ConversationHistory))
	}
	if got.Requirements.DestinationCity != nil {
		t.Fatalf("expected requirements reset, got %+v", got.Requirements)
	}
	if got.UserID != "u1" {
		t.Fatalf("expected user id preserved, got %q", got.UserID)
	}
}

func TestClearSessionUnknownID(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/fresh", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("fresh")

	if err := h.ClearSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	got, err := st.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected clear to create a fresh record")
	}
}
