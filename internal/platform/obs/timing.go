// Package obs carries request-scoped operation timing for the calls
// that dominate a planning run: solver, travel matrix and geocoder.
package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey carries the request id through the context so operation
// timing lines correlate with the request log line.
const RequestIDKey ctxKey = "req_id"

// Time logs one named operation's duration when the returned function
// runs. Callers pass the address of their named error return so a
// failed call logs its error alongside the timing:
//
//	defer obs.Time(ctx, "vroom.Solve")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		ms := time.Since(start).Milliseconds()
		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, ms, *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, ms)
	}
}
