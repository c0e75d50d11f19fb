package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/transport/http/handler"
	"github.com/practicelearn/course-portal/internal/transport/http/middleware"
	"github.com/practicelearn/course-portal/internal/usecase"
)

type stubContentRepo struct {
	modules []*domain.Module
}

func (r *stubContentRepo) ListModules(context.Context) ([]*domain.Module, error) {
	out := make([]*domain.Module, len(r.modules))
	for i, m := range r.modules {
		copied := *m
		copied.Sections = nil
		out[i] = &copied
	}
	return out, nil
}

func (r *stubContentRepo) FindModule(_ context.Context, id string) (*domain.Module, error) {
	for _, m := range r.modules {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domain.ErrModuleNotFound
}

func (r *stubContentRepo) ListQuestions(context.Context, string) ([]domain.Question, error) {
	return nil, nil
}

type stubFetcher struct {
	err error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader("file bytes")), nil
}

var catalog = []*domain.Module{
	{
		ID: "intro-wound-healing", Title: "Introduction to Wound Healing",
		MinTier: domain.TierPreview, Points: 1,
		Sections: []domain.Section{{Title: "Phases", Body: "..."}},
	},
	{
		ID: "wound-assessment", Title: "Structured Wound Assessment",
		MinTier: domain.TierOnlineOnly, Points: 2,
		Sections: []domain.Section{{Title: "TIME", Body: "..."}},
	},
}

func contentRouter(tier domain.Tier, store *stubFetcher) *gin.Engine {
	uc := usecase.NewContentUsecase(&stubContentRepo{modules: catalog}, store)
	h := handler.NewContentHandler(uc, discardLogger())
	r := gin.New()
	g := r.Group("/content", middleware.Auth(sessionFor(tier)))
	g.GET("/modules", h.ListModules)
	g.GET("/modules/:id", h.GetModule)
	g.GET("/download", h.Download)
	return r
}

func get(r *gin.Engine, path string, authenticated bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "test-credential"})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestListModules_Unauthenticated(t *testing.T) {
	r := contentRouter(domain.TierPreview, &stubFetcher{})

	if w := get(r, "/content/modules", false); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestListModules_PreviewSeesFullCatalogMetadata(t *testing.T) {
	r := contentRouter(domain.TierPreview, &stubFetcher{})

	w := get(r, "/content/modules", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Modules []map[string]any `json:"modules"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Modules) != 2 {
		t.Fatalf("got %d modules, want the full catalog", len(resp.Modules))
	}
	for _, m := range resp.Modules {
		if _, ok := m["sections"]; ok {
			t.Errorf("listing for %v leaks sections", m["id"])
		}
	}
}

func TestGetModule_PreviewDeniedWithUpgradeReason(t *testing.T) {
	r := contentRouter(domain.TierPreview, &stubFetcher{})

	w := get(r, "/content/modules/wound-assessment", true)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	var resp struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reason != "upgrade_required" {
		t.Errorf("reason = %q, want upgrade_required", resp.Reason)
	}
	if strings.Contains(w.Body.String(), "TIME") {
		t.Error("denial response leaks module content")
	}
}

func TestGetModule_PaidTierGetsSections(t *testing.T) {
	r := contentRouter(domain.TierOnlineOnly, &stubFetcher{})

	w := get(r, "/content/modules/wound-assessment", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "TIME") {
		t.Error("response missing section content")
	}
}

func TestGetModule_Unknown(t *testing.T) {
	r := contentRouter(domain.TierFullCourse, &stubFetcher{})

	if w := get(r, "/content/modules/missing", true); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDownload_PreviewForbidden(t *testing.T) {
	r := contentRouter(domain.TierPreview, &stubFetcher{})

	w := get(r, "/content/download?file=wound-assessment-guide.pdf", true)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestDownload_UnlistedFilename404(t *testing.T) {
	r := contentRouter(domain.TierFullCourse, &stubFetcher{})

	w := get(r, "/content/download?file=..%2F..%2Fetc%2Fpasswd", true)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDownload_StreamsAllowListedFile(t *testing.T) {
	r := contentRouter(domain.TierOnlineOnly, &stubFetcher{})

	w := get(r, "/content/download?file=wound-assessment-guide.pdf", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if w.Body.String() != "file bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestDownload_UpstreamDown503(t *testing.T) {
	r := contentRouter(domain.TierFullCourse, &stubFetcher{err: io.ErrUnexpectedEOF})

	w := get(r, "/content/download?file=wound-assessment-guide.pdf", true)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
