package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/douane/internal/audit"
	"github.com/JaimeStill/douane/pkg/pagination"
)

type mockSystem struct {
	pageFn func(ctx context.Context, page pagination.PageRequest, filters audit.Filters) (*audit.Page, error)
}

func (m *mockSystem) Handler() *audit.Handler {
	return audit.NewHandler(m, discard(), testPagination)
}

func (m *mockSystem) Append(context.Context, audit.Record) (int64, error) {
	return 0, nil
}

func (m *mockSystem) Page(ctx context.Context, page pagination.PageRequest, filters audit.Filters) (*audit.Page, error) {
	return m.pageFn(ctx, page, filters)
}

func testPage() pagination.PageRequest {
	return pagination.PageRequest{Page: 1, Size: testPagination.DefaultPageSize}
}

func TestHandlerList(t *testing.T) {
	var gotPage pagination.PageRequest
	var gotFilters audit.Filters

	sys := &mockSystem{
		pageFn: func(_ context.Context, page pagination.PageRequest, filters audit.Filters) (*audit.Page, error) {
			gotPage, gotFilters = page, filters
			return &audit.Page{
				Total:      1,
				Logs:       []audit.Record{{ID: 1, Prediction: "FDE", Probability: 0.9}},
				Page:       page.Page,
				Size:       page.Size,
				TotalPages: 1,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/logs?page=1&size=500&prediction=fde", nil)
	rec := httptest.NewRecorder()
	sys.Handler().List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if gotPage.Size != testPagination.MaxPageSize {
		t.Errorf("size = %d, want clamp to %d", gotPage.Size, testPagination.MaxPageSize)
	}
	if gotFilters.Prediction == nil || *gotFilters.Prediction != "FDE" {
		t.Errorf("prediction filter = %v, want FDE", gotFilters.Prediction)
	}
	if gotFilters.ClientIP != nil {
		t.Errorf("client_ip filter = %v, want nil", *gotFilters.ClientIP)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"total", "logs", "page", "size", "total_pages"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
}

func TestHandlerListDefaults(t *testing.T) {
	var gotPage pagination.PageRequest
	sys := &mockSystem{
		pageFn: func(_ context.Context, page pagination.PageRequest, _ audit.Filters) (*audit.Page, error) {
			gotPage = page
			return &audit.Page{Logs: []audit.Record{}, Page: page.Page, Size: page.Size, TotalPages: 1}, nil
		},
	}

	rec := httptest.NewRecorder()
	sys.Handler().List(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotPage != testPage() {
		t.Errorf("page = %+v, want %+v", gotPage, testPage())
	}
}

func TestHandlerListErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"page zero", "/logs?page=0", nil, http.StatusBadRequest},
		{"size zero", "/logs?size=0", nil, http.StatusBadRequest},
		{"page not a number", "/logs?page=two", nil, http.StatusBadRequest},
		{"page out of range", "/logs?page=9223372036854775807", nil, http.StatusBadRequest},
		{"store failure", "/logs", audit.ErrQuery, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				pageFn: func(_ context.Context, page pagination.PageRequest, _ audit.Filters) (*audit.Page, error) {
					if err := page.Validate(); err != nil {
						return nil, err
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return &audit.Page{Logs: []audit.Record{}}, nil
				},
			}

			rec := httptest.NewRecorder()
			sys.Handler().List(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing message")
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	if got := audit.MapHTTPStatus(audit.ErrInvalidPageRequest); got != http.StatusBadRequest {
		t.Errorf("invalid page = %d, want 400", got)
	}
	if got := audit.MapHTTPStatus(errors.New("other")); got != http.StatusInternalServerError {
		t.Errorf("other = %d, want 500", got)
	}
}
