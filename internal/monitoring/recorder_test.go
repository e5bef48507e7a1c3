package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/example/stockroom/internal/ports/primary"
)

func TestRecordHTTPRequest(t *testing.T) {
	t.Cleanup(func() {
		httpRequestsTotal.Reset()
		httpRequestDuration.Reset()
	})

	RecordHTTPRequest("POST", "/create/", 302, 40*time.Millisecond)
	RecordHTTPRequest("POST", "/create/", 302, 10*time.Millisecond)
	RecordHTTPRequest("POST", "/create/", 200, 10*time.Millisecond)

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/create/", "302")); got != 2 {
		t.Errorf("expected 2 redirects, got %v", got)
	}
	if got := testutil.CollectAndCount(httpRequestDuration); got != 1 {
		t.Errorf("expected one duration series, got %d", got)
	}
}

func TestRecordProductMutation(t *testing.T) {
	t.Cleanup(func() { productMutationsTotal.Reset() })

	RecordProductMutation("create", nil)
	RecordProductMutation("create", primary.FieldError("sku", "taken"))
	RecordProductMutation("delete", errors.New("disk full"))

	tests := []struct {
		operation, result string
		want              float64
	}{
		{"create", ResultSuccess, 1},
		{"create", ResultInvalid, 1},
		{"delete", ResultError, 1},
		{"update", ResultSuccess, 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(productMutationsTotal.WithLabelValues(tt.operation, tt.result)); got != tt.want {
			t.Errorf("%s/%s: expected %v, got %v", tt.operation, tt.result, tt.want, got)
		}
	}
}

func TestRecordAuthEvent(t *testing.T) {
	t.Cleanup(func() { authEventsTotal.Reset() })

	RecordAuthEvent("login", primary.ErrInvalidCredentials)
	RecordAuthEvent("login", nil)

	if got := testutil.ToFloat64(authEventsTotal.WithLabelValues("login", ResultInvalid)); got != 1 {
		t.Errorf("expected 1 invalid login, got %v", got)
	}
	if got := testutil.ToFloat64(authEventsTotal.WithLabelValues("login", ResultSuccess)); got != 1 {
		t.Errorf("expected 1 successful login, got %v", got)
	}
}

func TestSetLowStockProducts(t *testing.T) {
	SetLowStockProducts(3)
	if got := testutil.ToFloat64(lowStockProducts); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}
