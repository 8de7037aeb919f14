package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testRequestID = "3f2504e04f8911d39a0c0305e82c3301" // 32-hex

func newTestServer(t *testing.T) (*echo.Echo, *redis.Client, *int) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hits := 0
	e := echo.New()
	e.Use(Idempotency(rdb, time.Minute))
	e.POST("/things", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusCreated, map[string]any{"hit": hits})
	})
	e.GET("/things", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, map[string]any{"hit": hits})
	})
	return e, rdb, &hits
}

func doPost(e *echo.Echo, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validHeaders() map[string]string {
	return map[string]string{
		"X-Request-Id": testRequestID,
		"X-Request-At": strconv.FormatInt(time.Now().Unix(), 10),
		"X-Actor-Id":   "u-100",
	}
}

func TestIdempotency_GetBypassesChecks(t *testing.T) {
	e, _, hits := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/things", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *hits != 1 {
		t.Fatalf("hits = %d, want 1", *hits)
	}
}

func TestIdempotency_HeaderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h map[string]string)
	}{
		{"missing request id", func(h map[string]string) { delete(h, "X-Request-Id") }},
		{"malformed request id", func(h map[string]string) { h["X-Request-Id"] = "short" }},
		{"missing request at", func(h map[string]string) { delete(h, "X-Request-At") }},
		{"naive timestamp rejected", func(h map[string]string) { h["X-Request-At"] = "2026-03-07T10:00:00" }},
		{"skewed request at", func(h map[string]string) {
			h["X-Request-At"] = strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
		}},
		{"missing actor", func(h map[string]string) { delete(h, "X-Actor-Id") }},
		{"bad actor characters", func(h map[string]string) { h["X-Actor-Id"] = "user with spaces" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e, _, hits := newTestServer(t)
			h := validHeaders()
			tt.mutate(h)

			rec := doPost(e, `{"a":1}`, h)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body=%s", rec.Code, rec.Body.String())
			}
			if *hits != 0 {
				t.Fatalf("handler ran %d times, want 0", *hits)
			}
		})
	}
}

func TestIdempotency_ReplaysFinishedResponse(t *testing.T) {
	e, _, hits := newTestServer(t)
	h := validHeaders()

	first := doPost(e, `{"a":1}`, h)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", first.Code)
	}

	second := doPost(e, `{"a":1}`, h)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay status = %d, want 201; body=%s", second.Code, second.Body.String())
	}
	if *hits != 1 {
		t.Fatalf("handler ran %d times, want 1", *hits)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotency_ReusedIDDifferentBodyConflicts(t *testing.T) {
	e, _, hits := newTestServer(t)
	h := validHeaders()

	if rec := doPost(e, `{"a":1}`, h); rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", rec.Code)
	}
	rec := doPost(e, `{"a":2}`, h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body=%s", rec.Code, rec.Body.String())
	}
	if *hits != 1 {
		t.Fatalf("handler ran %d times, want 1", *hits)
	}
}

func TestIdempotency_InProgressDuplicateConflicts(t *testing.T) {
	e, rdb, hits := newTestServer(t)
	h := validHeaders()
	body := `{"a":1}`

	// Plant a provisional lock the way a concurrent first call would.
	key := buildKey(http.MethodPost, "/things", "u-100", testRequestID)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(body)), RequestID: testRequestID, CreatedAt: nowUTC()}
	payload, _ := json.Marshal(entry)
	if err := rdb.Set(context.Background(), key, payload, time.Minute).Err(); err != nil {
		t.Fatalf("seed redis: %v", err)
	}

	rec := doPost(e, body, h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body=%s", rec.Code, rec.Body.String())
	}
	if *hits != 0 {
		t.Fatalf("handler ran %d times, want 0", *hits)
	}
}

func TestIdempotency_DifferentActorsDoNotCollide(t *testing.T) {
	e, _, hits := newTestServer(t)

	h1 := validHeaders()
	h2 := validHeaders()
	h2["X-Actor-Id"] = "u-200"

	if rec := doPost(e, `{"a":1}`, h1); rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", rec.Code)
	}
	if rec := doPost(e, `{"a":1}`, h2); rec.Code != http.StatusCreated {
		t.Fatalf("second actor status = %d, want 201", rec.Code)
	}
	if *hits != 2 {
		t.Fatalf("handler ran %d times, want 2", *hits)
	}
}

func TestParseRequestAt_Formats(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"epoch seconds", strconv.FormatInt(now.Unix(), 10), now, false},
		{"epoch millis", strconv.FormatInt(now.UnixMilli(), 10), now, false},
		{"rfc3339 with zone", now.Format(time.RFC3339), now, false},
		{"rfc3339 with offset", now.In(time.FixedZone("WIB", 7*3600)).Format(time.RFC3339), now, false},
		{"naive local", "2026-03-07T10:00:00", time.Time{}, true},
		{"empty", "", time.Time{}, true},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequestAt(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientRequestID_NormalizesCase(t *testing.T) {
	got, err := clientRequestID("  " + strings.ToUpper(testRequestID) + "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != testRequestID {
		t.Fatalf("got %q, want %q", got, testRequestID)
	}
	if _, err := clientRequestID(fmt.Sprintf("%x", []byte("tooshort"))); err == nil {
		t.Fatal("expected error for short id")
	}
}
