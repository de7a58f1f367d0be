package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jellyjae/cliftonstrengths/internal/platform/ctxutil"
)

func TestAttachRequestContextCarriesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen ctxutil.RequestData
	r := gin.New()
	r.Use(AttachRequestContext())
	r.POST("/api/daily-prompts", func(c *gin.Context) {
		DeviceID(c, c.Query("body_device"))
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			seen = *rd
		}
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		name       string
		header     string
		bodyDevice string
		wantDevice string
	}{
		{"header wins", "device-a", "device-b", "device-a"},
		{"body fallback", "", "device-b", "device-b"},
		{"malformed header falls back to body", "bad id!", "device-b", "device-b"},
		{"nothing usable", "", "bad id!", ""},
	}
	for _, tc := range cases {
		seen = ctxutil.RequestData{}
		req := httptest.NewRequest(http.MethodPost, "/api/daily-prompts?body_device="+url.QueryEscape(tc.bodyDevice), nil)
		req.Header.Set(headerRequestID, "req-1")
		if tc.header != "" {
			req.Header.Set(HeaderDeviceID, tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if seen.DeviceID != tc.wantDevice {
			t.Fatalf("%s: device = %q, want %q", tc.name, seen.DeviceID, tc.wantDevice)
		}
		if seen.RequestID != "req-1" || w.Header().Get(headerRequestID) != "req-1" {
			t.Fatalf("%s: request id not carried: %+v", tc.name, seen)
		}
		if seen.TraceID == "" || w.Header().Get(headerTraceID) != seen.TraceID {
			t.Fatalf("%s: trace id not echoed", tc.name)
		}
	}
}

func TestDeviceIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/clear-prompts", nil)

	if got := DeviceID(c, "device-z"); got != "device-z" {
		t.Fatalf("DeviceID = %q", got)
	}
	if got := ctxutil.GetDeviceID(c.Request.Context()); got != "device-z" {
		t.Fatalf("body device not attached: %q", got)
	}
}
