package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/asakaida/fraudlens/internal/services/report"
	"github.com/gorilla/mux"
)

func newTestRouter(relationshipService *mockRelationshipService, generator *mockGenerator) *mux.Router {
	router := mux.NewRouter()
	NewDashboardHandler(newMockTables("A1", "A3"), relationshipService, generator, nil).RegisterRoutes(router)
	return router
}

func postForm(router http.Handler, path, accountID string) *httptest.ResponseRecorder {
	form := url.Values{"account_id": {accountID}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDashboard_Index(t *testing.T) {
	router := newTestRouter(&mockRelationshipService{}, &mockGenerator{})

	tests := []struct {
		name  string
		path  string
		wants []string
	}{
		{name: "data tab by default", path: "/", wants: []string{"accounts (2)", "<td>A3</td>"}},
		{name: "graph tab", path: "/?tab=graph", wants: []string{`action="/analyze"`, `<option value="A1">A1</option>`}},
		{name: "report tab", path: "/?tab=report", wants: []string{`action="/reports"`, "Strategy: template"}},
		{name: "unknown tab falls back to data", path: "/?tab=nope", wants: []string{"accounts (2)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := rec.Body.String()
			for _, want := range tt.wants {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}

func TestDashboard_Analyze(t *testing.T) {
	tests := []struct {
		name       string
		accountID  string
		findings   []*entities.Finding
		findErr    error
		wantStatus int
		wants      []string
	}{
		{
			name:       "findings",
			accountID:  "A1",
			findings:   []*entities.Finding{aliceFinding()},
			wantStatus: http.StatusOK,
			wants:      []string{"Alice sent from A1 to A2 (balance: 500.00)", `<option value="A1" selected>`},
		},
		{
			name:       "no findings",
			accountID:  "A3",
			findings:   []*entities.Finding{},
			wantStatus: http.StatusOK,
			wants:      []string{noFindingsMessage},
		},
		{
			name:       "graph unavailable",
			accountID:  "A1",
			findErr:    fmt.Errorf("auth rejected: %w", repositories.ErrGraphUnavailable),
			wantStatus: http.StatusBadGateway,
			wants:      []string{"graph store unavailable"},
		},
		{
			name:       "unknown account",
			accountID:  "C1",
			wantStatus: http.StatusBadRequest,
			wants:      []string{"unknown account"},
		},
		{
			name:       "missing account",
			accountID:  "",
			wantStatus: http.StatusBadRequest,
			wants:      []string{"account ID is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relationshipService := &mockRelationshipService{
				findFunc: func(ctx context.Context, accountID string) ([]*entities.Finding, error) {
					return tt.findings, tt.findErr
				},
			}
			rec := postForm(newTestRouter(relationshipService, &mockGenerator{}), "/analyze", tt.accountID)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := rec.Body.String()
			for _, want := range tt.wants {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
			if tt.wantStatus == http.StatusOK && strings.Contains(body, `class="error"`) {
				t.Error("unexpected error message in body")
			}
			if strings.Contains(body, "`") {
				t.Error("findings must render without markdown backticks")
			}
		})
	}
}

func TestDashboard_Report(t *testing.T) {
	tests := []struct {
		name        string
		accountID   string
		findings    []*entities.Finding
		wantMessage bool
	}{
		{name: "no findings", accountID: "A3", findings: []*entities.Finding{}, wantMessage: true},
		{name: "with findings", accountID: "A1", findings: []*entities.Finding{aliceFinding()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relationshipService := &mockRelationshipService{
				findFunc: func(ctx context.Context, accountID string) ([]*entities.Finding, error) {
					return tt.findings, nil
				},
			}
			rec := postForm(newTestRouter(relationshipService, &mockGenerator{}), "/reports", tt.accountID)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "Account "+tt.accountID+" shows a possible suspicious pattern.") {
				t.Error("expected report body in page")
			}
			if got := strings.Contains(body, noFindingsMessage); got != tt.wantMessage {
				t.Errorf("no findings message shown = %v, want %v", got, tt.wantMessage)
			}
			if relationshipService.calls != 1 {
				t.Errorf("expected 1 lookup, got %d", relationshipService.calls)
			}
		})
	}
}

func TestDashboard_ReportFailure(t *testing.T) {
	generator := &mockGenerator{
		strategy: entities.StrategyGenerative,
		generateFunc: func(ctx context.Context, accountID string, findings []*entities.Finding) (*entities.Report, error) {
			return nil, fmt.Errorf("%w: %v", report.ErrGenerationFailed, errors.New("quota exceeded"))
		},
	}
	rec := postForm(newTestRouter(&mockRelationshipService{}, generator), "/reports", "A1")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "quota exceeded") {
		t.Error("expected generation error in page")
	}
	if strings.Contains(body, "shows a possible suspicious pattern") {
		t.Error("failed generation must not render a template report")
	}
}

func TestDashboard_Health(t *testing.T) {
	router := newTestRouter(&mockRelationshipService{}, &mockGenerator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}
