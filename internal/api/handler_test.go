package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/usecase"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
)

// MockChat records what the test send endpoint forwarded
type MockChat struct {
	phone string
	text  string
}

func (m *MockChat) Chat(ctx context.Context, phone, text string) *domain.Reply {
	m.phone = phone
	m.text = text
	return &domain.Reply{Success: true, Message: "ok", ListingID: 7}
}

type fixture struct {
	router    http.Handler
	chat      *MockChat
	owner     *domain.Account
	applicant *domain.Account
	listing   *domain.Listing
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()
	store, err := data.OpenStore("", filepath.Join(t.TempDir(), "tevkil.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	accounts := data.NewAccountRepo(store)
	listings := data.NewListingRepo(store)

	f := &fixture{chat: &MockChat{}}
	f.owner = &domain.Account{Email: "owner@example.com", FullName: "Av. Ayşe", Phone: "+905550000001", City: "İzmir", Active: true}
	f.applicant = &domain.Account{Email: "app@example.com", FullName: "Av. Mehmet", Phone: "+905550000002", City: "İzmir", Active: true}
	for _, a := range []*domain.Account{f.owner, f.applicant} {
		if err := accounts.Create(ctx, a); err != nil {
			t.Fatalf("Failed to create account: %v", err)
		}
	}

	f.listing = &domain.Listing{UserID: f.owner.ID, Title: "Aile Mahkemesi duruşma", Location: "İzmir", City: "İzmir", PriceMin: 4000, PriceMax: 4000}
	if err := listings.Create(ctx, f.listing); err != nil {
		t.Fatalf("Failed to create listing: %v", err)
	}

	applications := usecase.NewApplicationUsecase(accounts, listings, data.NewApplicationRepo(store), nil)
	r := chi.NewRouter()
	NewServer(f.chat, applications, token).Register(r)
	f.router = r
	return f
}

func (f *fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set(AdminTokenHeader, token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAdminToken(t *testing.T) {
	f := newFixture(t, "secret")

	if w := f.do(http.MethodGet, "/api/listings/1", "", nil); w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 without token, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/listings/1", "wrong", nil); w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 with wrong token, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/listings/1", "secret", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with token, got %d", w.Code)
	}
}

func TestAdminToken_EmptyDisablesAPI(t *testing.T) {
	f := newFixture(t, "")

	if w := f.do(http.MethodGet, "/api/listings/1", "", nil); w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestHandleTestSend(t *testing.T) {
	f := newFixture(t, "secret")

	w := f.do(http.MethodPost, "/api/whatsapp/test", "secret", TestSendRequest{Phone: "905551234567", Text: "#YARDIM"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if f.chat.phone != "905551234567" || f.chat.text != "#YARDIM" {
		t.Errorf("Expected message forwarded, got %q %q", f.chat.phone, f.chat.text)
	}

	var reply domain.Reply
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !reply.Success || reply.ListingID != 7 {
		t.Errorf("Unexpected reply: %+v", reply)
	}

	if w := f.do(http.MethodPost, "/api/whatsapp/test", "secret", TestSendRequest{Phone: "905551234567"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without text, got %d", w.Code)
	}
}

func TestHandleGetListing(t *testing.T) {
	f := newFixture(t, "secret")

	w := f.do(http.MethodGet, "/api/listings/1", "secret", nil)
	var view ListingView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if view.Title != "Aile Mahkemesi duruşma" {
		t.Errorf("Expected title, got %q", view.Title)
	}
	if view.Status != "active" {
		t.Errorf("Expected status active, got %s", view.Status)
	}

	if w := f.do(http.MethodGet, "/api/listings/999", "secret", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/listings/abc", "secret", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleApplyAndDecide(t *testing.T) {
	f := newFixture(t, "secret")

	w := f.do(http.MethodPost, "/api/applications", "secret", ApplyRequest{
		ListingID:     f.listing.ID,
		ApplicantID:   f.applicant.ID,
		Message:       "Yarın müsaitim",
		ProposedPrice: 3500,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var app ApplicationView
	if err := json.Unmarshal(w.Body.Bytes(), &app); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if app.Status != "pending" {
		t.Errorf("Expected pending, got %s", app.Status)
	}

	path := "/api/applications/" + jsonID(app.ID) + "/status"
	if w := f.do(http.MethodPost, path, "secret", DecideRequest{Status: "maybe"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown status, got %d", w.Code)
	}

	w = f.do(http.MethodPost, path, "secret", DecideRequest{Status: "accepted"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := f.do(http.MethodPost, path, "secret", DecideRequest{Status: "rejected"}); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for second decision, got %d", w.Code)
	}

	// Listing is assigned now
	w = f.do(http.MethodGet, "/api/listings/"+jsonID(f.listing.ID), "secret", nil)
	var view ListingView
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Status != "assigned" {
		t.Errorf("Expected listing assigned, got %s", view.Status)
	}
	if view.AssignedTo != f.applicant.ID {
		t.Errorf("Expected assigned_to %d, got %d", f.applicant.ID, view.AssignedTo)
	}
}

func TestHandleApply_AlreadyApplied(t *testing.T) {
	f := newFixture(t, "secret")

	req := ApplyRequest{ListingID: f.listing.ID, ApplicantID: f.applicant.ID, ProposedPrice: 3500}
	if w := f.do(http.MethodPost, "/api/applications", "secret", req); w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/api/applications", "secret", req); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for second application, got %d", w.Code)
	}
}

func TestHandleApply_OwnListing(t *testing.T) {
	f := newFixture(t, "secret")

	w := f.do(http.MethodPost, "/api/applications", "secret", ApplyRequest{ListingID: f.listing.ID, ApplicantID: f.owner.ID})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestHandleApply_InvalidBody(t *testing.T) {
	f := newFixture(t, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewBufferString("{"))
	req.Header.Set(AdminTokenHeader, "secret")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
