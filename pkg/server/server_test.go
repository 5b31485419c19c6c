package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/usage-report/pkg/models/api"
	"github.com/de-tools/usage-report/pkg/models/domain"
	"github.com/de-tools/usage-report/pkg/services/workflow"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockController struct {
	mock.Mock
}

func (m *mockController) Run(ctx context.Context, req workflow.Request) (*domain.RunSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunSummary), args.Error(1)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var v T
		err := json.Unmarshal(data, &v)
		return v, err
	}
}

func plainText(data []byte) (interface{}, error) {
	return string(data), nil
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-10-09 Weekly Usage Report.xlsx"), []byte("older"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-10-16 Weekly Usage Report.xlsx"), []byte("newer"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	ctrl := new(mockController)
	router := ConfigureRouter(Config{
		Addr: ":8080",
		Dependencies: Dependencies{
			Reports:   ctrl,
			OutputDir: dir,
			Logger:    logger,
		},
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	thisWeek := domain.TimeWindow{Label: domain.ThisWeek, Start: date(2026, 10, 9), End: date(2026, 10, 16)}

	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:           "ListWindows",
			method:         http.MethodGet,
			path:           "/api/v1/windows?date=2026-10-14",
			setupMocks:     func() {},
			expectedStatus: http.StatusOK,
			expected: []api.TimeWindow{
				{Label: "This Week", Start: date(2026, 10, 9), End: date(2026, 10, 16)},
				{Label: "Last Week", Start: date(2026, 10, 2), End: date(2026, 10, 9)},
				{Label: "Last Year", Start: date(2025, 10, 10), End: date(2025, 10, 17)},
			},
			parseResponse: unmarshalResponse[[]api.TimeWindow](),
		},
		{
			name:           "ListWindows_InvalidDate",
			method:         http.MethodGet,
			path:           "/api/v1/windows?date=invalid-date",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expected:       "invalid 'date' format. Expected format: YYYY-MM-DD\n",
			parseResponse:  plainText,
		},
		{
			name:   "GenerateReport",
			method: http.MethodPost,
			path:   "/api/v1/reports?date=2026-10-14",
			setupMocks: func() {
				ctrl.On("Run", mock.Anything, mock.MatchedBy(func(req workflow.Request) bool {
					return req.Today.Equal(date(2026, 10, 14)) && req.OutputDir == dir && req.RunID != ""
				})).Return(&domain.RunSummary{
					RunID:   "run-1",
					Path:    filepath.Join(dir, "2026-10-16 Weekly Usage Report.xlsx"),
					Windows: []domain.TimeWindow{thisWeek},
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expected: api.RunSummary{
				RunID:    "run-1",
				File:     "2026-10-16 Weekly Usage Report.xlsx",
				Windows:  []api.TimeWindow{{Label: "This Week", Start: date(2026, 10, 9), End: date(2026, 10, 16)}},
				Panels:   []api.PanelSummary{},
				Stats:    []api.DailyStats{},
				Warnings: []string{},
			},
			parseResponse: unmarshalResponse[api.RunSummary](),
		},
		{
			name:   "GenerateReport_Failure",
			method: http.MethodPost,
			path:   "/api/v1/reports?date=2026-10-21",
			setupMocks: func() {
				ctrl.On("Run", mock.Anything, mock.MatchedBy(func(req workflow.Request) bool {
					return req.Today.Equal(date(2026, 10, 21))
				})).Return(nil, errors.New("connection refused")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expected:       "failed to generate report\n",
			parseResponse:  plainText,
		},
		{
			name:           "ListReports",
			method:         http.MethodGet,
			path:           "/api/v1/reports",
			setupMocks:     func() {},
			expectedStatus: http.StatusOK,
			expected:       []string{"2026-10-16 Weekly Usage Report.xlsx", "2026-10-09 Weekly Usage Report.xlsx"},
			parseResponse: func(data []byte) (interface{}, error) {
				var files []api.ReportFile
				if err := json.Unmarshal(data, &files); err != nil {
					return nil, err
				}
				names := make([]string, 0, len(files))
				for _, f := range files {
					names = append(names, f.Name)
				}
				return names, nil
			},
		},
		{
			name:           "DownloadReport",
			method:         http.MethodGet,
			path:           "/api/v1/reports/" + url.PathEscape("2026-10-16 Weekly Usage Report.xlsx"),
			setupMocks:     func() {},
			expectedStatus: http.StatusOK,
			expected:       "newer",
			parseResponse:  plainText,
		},
		{
			name:           "DownloadReport_NotFound",
			method:         http.MethodGet,
			path:           "/api/v1/reports/absent.xlsx",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
			expected:       "report not found\n",
			parseResponse:  plainText,
		},
		{
			name:           "DownloadReport_NotAWorkbook",
			method:         http.MethodGet,
			path:           "/api/v1/reports/notes.txt",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expected:       "invalid report name\n",
			parseResponse:  plainText,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()
			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}

	ctrl.AssertExpectations(t)
}

func TestWebAPI_StartStopsOnContextCancel(t *testing.T) {
	web := NewWebAPI(Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Dependencies:    Dependencies{Logger: zerolog.Nop()},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- web.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
