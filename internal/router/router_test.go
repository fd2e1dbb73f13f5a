package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/db"
)

func setupTestRouter(t *testing.T, mutate ...func(*config.AppConfig)) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.AppConfig{AdminPrefix: "/-", SessionSecret: "test-secret"}
	for _, m := range mutate {
		m(&cfg)
	}

	r, err := SetupRouter(cfg, gdb)
	if err != nil {
		t.Fatalf("failed to set up router: %v", err)
	}
	return r, gdb
}

func serve(r *gin.Engine, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestPingAndRequestID(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := serve(r, http.MethodGet, "/ping", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "pong") {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected incoming request id to be kept, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	serve(r, http.MethodGet, "/ping", nil)

	rr := serve(r, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `http_requests_total{method="GET",route="/ping",status="200"}`) {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestAdminRootRedirectsToPosts(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := serve(r, http.MethodGet, "/-", nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/-/posts" {
		t.Fatalf("expected redirect to post list, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestCustomAdminPrefix(t *testing.T) {
	r, _ := setupTestRouter(t, func(cfg *config.AppConfig) { cfg.AdminPrefix = "/admin" })

	if rr := serve(r, http.MethodGet, "/admin/posts", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 under custom prefix, got %d", rr.Code)
	}
	if rr := serve(r, http.MethodGet, "/-/posts", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected default prefix to be unrouted, got %d", rr.Code)
	}
}

func TestRenderedAdminAndPublicPages(t *testing.T) {
	r, _ := setupTestRouter(t)

	if rr := serve(r, http.MethodPost, "/-/header", url.Values{"header": {"# Site Title"}}); rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after header save, got %d", rr.Code)
	}
	if rr := serve(r, http.MethodPost, "/-/javascript", url.Values{"javascript": {"window.ready = 1 < 2;"}}); rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after javascript save, got %d", rr.Code)
	}
	if rr := serve(r, http.MethodPost, "/-/posts/new", url.Values{"title": {"First Post"}, "content": {"Hello *there*"}}); rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after create, got %d", rr.Code)
	}

	rr := serve(r, http.MethodGet, "/-/posts", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "First Post") {
		t.Fatalf("expected post list to render the post, got %d", rr.Code)
	}

	rr = serve(r, http.MethodGet, "/-/posts/1", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Hello *there*") {
		t.Fatalf("expected editor with markdown source, got %d", rr.Code)
	}

	rr = serve(r, http.MethodPost, "/-/posts/1/publish", url.Values{"title": {"First Post"}, "content": {"Hello *there*"}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after publish, got %d", rr.Code)
	}

	rr = serve(r, http.MethodGet, "/first-post", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected published page, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"<h1>Site Title</h1>", "Hello <em>there</em>", "window.ready = 1 < 2;"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected public page to contain %q", want)
		}
	}

	rr = serve(r, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `href="/first-post"`) {
		t.Fatalf("expected index to link the post, got %d", rr.Code)
	}
}

func TestUnknownPublicURLIsNotFound(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := serve(r, http.MethodGet, "/does-not-exist", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Not Found") {
		t.Fatalf("expected rendered error page")
	}
}

func TestPostsCannotTakeFixedRouteURLs(t *testing.T) {
	r, gdb := setupTestRouter(t)

	rejected := []url.Values{
		{"title": {"Ping"}},
		{"title": {"Metrics"}},
		{"title": {"Admin"}, "url": {"-"}},
	}
	for _, form := range rejected {
		if rr := serve(r, http.MethodPost, "/-/posts/new", form); rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422 for %v, got %d", form, rr.Code)
		}
	}

	var count int64
	gdb.Model(&db.Page{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected nothing stored, got %d rows", count)
	}

	rr := serve(r, http.MethodGet, "/ping", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "pong") {
		t.Fatalf("expected ping to stay intact, got %d", rr.Code)
	}
}

func TestReservedURLsFollowAdminPrefix(t *testing.T) {
	r, _ := setupTestRouter(t, func(cfg *config.AppConfig) { cfg.AdminPrefix = "/admin/cms" })

	if rr := serve(r, http.MethodPost, "/admin/cms/posts/new", url.Values{"title": {"Admin"}}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected admin segment to be reserved, got %d", rr.Code)
	}
	if rr := serve(r, http.MethodPost, "/admin/cms/posts/new", url.Values{"title": {"Dash"}, "url": {"-"}}); rr.Code != http.StatusSeeOther {
		t.Fatalf("expected default prefix segment to be free, got %d", rr.Code)
	}
}

func TestReservedURLs(t *testing.T) {
	testCases := []struct {
		prefix string
		want   []string
	}{
		{prefix: "/-", want: []string{"ping", "metrics", "-"}},
		{prefix: "/admin", want: []string{"ping", "metrics", "admin"}},
		{prefix: "/admin/cms", want: []string{"ping", "metrics", "admin"}},
	}
	for _, tc := range testCases {
		got := reservedURLs(tc.prefix)
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Fatalf("reservedURLs(%q) = %v, want %v", tc.prefix, got, tc.want)
		}
	}
}
