package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/usage-report/pkg/adapters"
	"github.com/de-tools/usage-report/pkg/models/api"
	"github.com/de-tools/usage-report/pkg/services/calendar"
	"github.com/de-tools/usage-report/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const reportExt = ".xlsx"

type Handler struct {
	ctrl workflow.Controller
	dir  string
	now  func() time.Time
}

func NewHandler(ctrl workflow.Controller, dir string) *Handler {
	return &Handler{ctrl: ctrl, dir: dir, now: time.Now}
}

// today reads the optional ?date= parameter.
func (h *Handler) today(r *http.Request) (time.Time, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return calendar.Today(h.now()), nil
	}
	return time.Parse(time.DateOnly, date)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func (h *Handler) ListWindows(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		http.Error(w, "invalid 'date' format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapTimeWindowsDomainToApi(calendar.SetupWindows(today)))
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	today, err := h.today(r)
	if err != nil {
		http.Error(w, "invalid 'date' format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summary, err := h.ctrl.Run(ctx, workflow.Request{
		RunID:     uuid.NewString(),
		Today:     today,
		OutputDir: h.dir,
	})
	if err != nil {
		logger.Error().
			Err(err).
			Time("date", today).
			Msg("report generation failed")
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusCreated, adapters.MapRunSummaryDomainToApi(summary))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	entries, err := os.ReadDir(h.dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error().Err(err).Str("dir", h.dir).Msg("failed to list reports")
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}

	files := []api.ReportFile{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), reportExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, api.ReportFile{
			Name:     e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC(),
		})
	}
	// Names start with the week's end date, so newest first.
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })

	writeJSON(w, r, http.StatusOK, files)
}

func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	if name != filepath.Base(name) || filepath.Ext(name) != reportExt {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
