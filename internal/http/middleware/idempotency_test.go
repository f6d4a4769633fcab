package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func idemRouter(lookup IdempotencyLookup, opts IdempotencyOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdempotencyValidator(opts, lookup))
	r.POST("/generate", func(c *gin.Context) {
		key, has := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{
			"key":    key,
			"has":    has,
			"replay": IsReplay(c),
			"bypass": IsRateBypass(c),
		})
	})
	return r
}

func TestIdempotency_NoHeaderIsNoop(t *testing.T) {
	r := idemRouter(nil, IdempotencyOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"has":false`) {
		t.Fatalf("key unexpectedly present: %s", w.Body.String())
	}
}

func TestIdempotency_InvalidKeyRejected(t *testing.T) {
	r := idemRouter(nil, IdempotencyOptions{})

	for _, key := range []string{"has spaces", "emoji-é", strings.Repeat("x", 201)} {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("key %q: status = %d", key, w.Code)
		}
	}
}

func TestIdempotency_ValidKeyStored(t *testing.T) {
	r := idemRouter(nil, IdempotencyOptions{})

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set(HeaderIdempotencyKey, "retry-001")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"key":"retry-001"`) || !strings.Contains(body, `"replay":false`) {
		t.Fatalf("body = %s", body)
	}
}

func TestIdempotency_ReplayMarksBypass(t *testing.T) {
	var sawUser, sawKey string
	lookup := func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
		sawUser, sawKey = userID, key
		return true, nil
	}
	r := idemRouter(lookup, IdempotencyOptions{})

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set(HeaderIdempotencyKey, "retry-001")
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if sawUser != "u1" || sawKey != "retry-001" {
		t.Fatalf("lookup saw (%q, %q)", sawUser, sawKey)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"replay":true`) || !strings.Contains(body, `"bypass":true`) {
		t.Fatalf("body = %s", body)
	}
}

func TestIdempotency_LookupErrorIsNotReplay(t *testing.T) {
	lookup := func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
		return false, context.DeadlineExceeded
	}
	r := idemRouter(lookup, IdempotencyOptions{})

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set(HeaderIdempotencyKey, "retry-001")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestIdempotency_CustomMaxLen(t *testing.T) {
	r := idemRouter(nil, IdempotencyOptions{MaxLen: 8})

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set(HeaderIdempotencyKey, "123456789")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}
