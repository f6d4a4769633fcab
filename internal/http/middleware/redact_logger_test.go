package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func redactRouter(opts RedactOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RedactingLogger(opts))
	r.GET("/chats", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRedactingLogger_ScrubsQuery(t *testing.T) {
	buf := captureLogs(t)
	r := redactRouter(RedactOptions{})

	target := "/chats?email=jane.doe%40example.com&id=141add05-4415-4938-b5a1-17e0d3171aff"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	out := buf.String()
	if strings.Contains(out, "jane.doe") {
		t.Fatalf("email leaked: %s", out)
	}
	if strings.Contains(out, "141add05") {
		t.Fatalf("uuid leaked: %s", out)
	}
	if !strings.Contains(out, "[REDACTED:email]") || !strings.Contains(out, "[REDACTED:id]") {
		t.Fatalf("placeholders missing: %s", out)
	}
}

func TestRedactingLogger_ScrubsDataURL(t *testing.T) {
	buf := captureLogs(t)
	r := redactRouter(RedactOptions{})

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	req.Header.Set("X-Debug-Image", "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, "iVBORw0KGgo") {
		t.Fatalf("data URL payload leaked: %s", out)
	}
	if !strings.Contains(out, "[REDACTED:data-url]") {
		t.Fatalf("placeholder missing: %s", out)
	}
}

func TestRedactingLogger_MasksSensitiveHeaders(t *testing.T) {
	buf := captureLogs(t)
	r := redactRouter(RedactOptions{MaskHeaders: []string{"X-Custom-Secret"}})

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	req.Header.Set("Authorization", "Bearer sk-super-secret")
	req.Header.Set("X-Api-Key", "key-123")
	req.Header.Set("X-Custom-Secret", "hunter2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := buf.String()
	for _, leak := range []string{"sk-super-secret", "key-123", "hunter2"} {
		if strings.Contains(out, leak) {
			t.Fatalf("%q leaked: %s", leak, out)
		}
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Fatalf("mask missing: %s", out)
	}
}

func TestRedactingLogger_NeverLogsBody(t *testing.T) {
	buf := captureLogs(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/generate", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	body := strings.NewReader(`{"image_url":"data:image/png;base64,SECRETPAYLOAD"}`)
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if strings.Contains(buf.String(), "SECRETPAYLOAD") {
		t.Fatalf("request body leaked: %s", buf.String())
	}
}
