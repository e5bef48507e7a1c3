package monitoring

import (
	"errors"
	"strconv"
	"time"

	"github.com/example/stockroom/internal/ports/primary"
)

// Results recorded on the result label.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// RecordHTTPRequest records a finished request. route is the matched
// pattern (e.g. /detail/:id/), not the raw path, to keep cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordProductMutation records a product create, update or delete.
func RecordProductMutation(operation string, err error) {
	productMutationsTotal.WithLabelValues(operation, result(err)).Inc()
}

// RecordAuthEvent records a register, login or logout attempt.
func RecordAuthEvent(event string, err error) {
	authEventsTotal.WithLabelValues(event, result(err)).Inc()
}

// SetLowStockProducts sets the low-stock gauge.
func SetLowStockProducts(n int) {
	lowStockProducts.Set(float64(n))
}

// result classifies err: rejected input and bad credentials are "invalid".
func result(err error) string {
	if err == nil {
		return ResultSuccess
	}
	if _, ok := primary.AsValidationError(err); ok || errors.Is(err, primary.ErrInvalidCredentials) {
		return ResultInvalid
	}
	return ResultError
}
