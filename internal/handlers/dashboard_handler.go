package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/asakaida/fraudlens/internal/services/relationship"
	"github.com/asakaida/fraudlens/internal/services/report"
	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Dashboard tabs
const (
	tabData   = "data"
	tabGraph  = "graph"
	tabReport = "report"
)

// noFindingsMessage is shown when a lookup succeeds with no results
const noFindingsMessage = "No suspicious patterns found."

// dashboardPage is the view model of dashboard.html
type dashboardPage struct {
	Tab        string
	Tables     []*entities.Table
	AccountIDs []string
	Selected   string
	Strategy   string

	// Graph summary tab
	Analyzed bool
	Findings []*entities.Finding

	// SAR tab
	Report *entities.Report

	Error   string
	Message string
}

// DashboardHandler serves the analyst dashboard
type DashboardHandler struct {
	analysis *analysis
}

// NewDashboardHandler creates a new DashboardHandler. observer may be nil.
func NewDashboardHandler(
	tables repositories.TableRepository,
	relationshipService relationship.ServiceInterface,
	generator report.Generator,
	observer AnalysisObserver,
) *DashboardHandler {
	return &DashboardHandler{
		analysis: newAnalysis(tables, relationshipService, generator, observer),
	}
}

// RegisterRoutes registers the dashboard routes on router
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/analyze", h.Analyze).Methods(http.MethodPost)
	router.HandleFunc("/reports", h.Report).Methods(http.MethodPost)
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
}

// Index renders the tab selected by the "tab" query parameter
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r.URL.Query().Get("tab"))
	h.render(w, http.StatusOK, page)
}

// Analyze runs the one-hop lookup for the posted account_id
func (h *DashboardHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(tabGraph)
	page.Selected = strings.TrimSpace(r.FormValue("account_id"))

	findings, err := h.analysis.findTransfers(r.Context(), page.Selected)
	if err != nil {
		log.Printf("Lookup failed for account %q: %v", page.Selected, err)
		page.Error = err.Error()
		h.render(w, httpStatus(err), page)
		return
	}

	page.Analyzed = true
	page.Findings = findings
	if len(findings) == 0 {
		page.Message = noFindingsMessage
	}
	h.render(w, http.StatusOK, page)
}

// Report runs the lookup and generates a report for the posted account_id
func (h *DashboardHandler) Report(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(tabReport)
	page.Selected = strings.TrimSpace(r.FormValue("account_id"))

	rep, err := h.analysis.generateReport(r.Context(), page.Selected)
	if err != nil {
		log.Printf("Report failed for account %q: %v", page.Selected, err)
		page.Error = err.Error()
		h.render(w, httpStatus(err), page)
		return
	}

	page.Report = rep
	page.Findings = rep.Findings
	if len(rep.Findings) == 0 {
		page.Message = noFindingsMessage
	}
	h.render(w, http.StatusOK, page)
}

// Health reports liveness
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}

func (h *DashboardHandler) newPage(tab string) *dashboardPage {
	switch tab {
	case tabGraph, tabReport:
	default:
		tab = tabData
	}

	return &dashboardPage{
		Tab:        tab,
		Tables:     h.analysis.tables.Tables(),
		AccountIDs: h.analysis.tables.AccountIDs(),
		Strategy:   h.analysis.generator.Strategy(),
	}
}

func (h *DashboardHandler) render(w http.ResponseWriter, code int, page *dashboardPage) {
	var buf strings.Builder
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		log.Printf("Failed to render dashboard: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(buf.String())); err != nil {
		log.Printf("Failed to write dashboard: %v", err)
	}
}

// httpStatus maps analysis errors to HTTP status codes
func httpStatus(err error) int {
	switch {
	case errors.Is(err, relationship.ErrInvalidAccountID), errors.Is(err, ErrUnknownAccount):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
