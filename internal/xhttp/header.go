package xhttp

import (
	"math"
	"net/http"
	"strconv"
	"time"
)

const (
	XForwardedFor    = "X-Forwarded-For"
	XContentTypeOpts = "X-Content-Type-Options"
	XFrameOpts       = "X-Frame-Options"
	ReferrerPolicy   = "Referrer-Policy"
	XRateLimitReason = "X-RateLimit-Reason"
	XSessionID       = "X-Session-ID"
	XDeviceID        = "X-Device-ID"
	XRequestID       = "X-Request-ID"
)

const (
	ContentType     = "Content-Type"
	ContentEncoding = "Content-Encoding"
	ContentLength   = "Content-Length"
	AcceptEncoding  = "Accept-Encoding"
	Accept          = "Accept"
	Vary            = "Vary"
	Authorization   = "Authorization"
	CacheControl    = "Cache-Control"
	RetryAfter      = "Retry-After"
)

const (
	ApplicationJSON = "application/json"
	TextEventStream = "text/event-stream"
)

func SetHeaderRequestID(w http.ResponseWriter, requestID string) {
	w.Header().Set(XRequestID, requestID)
}

func SetHeaderContentTypeApplicationJSON(w http.ResponseWriter) {
	w.Header().Set(ContentType, ApplicationJSON)
}

// SetHeaderRetryAfter rounds up to whole seconds so a short wait is never
// advertised as zero.
func SetHeaderRetryAfter(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	w.Header().Set(RetryAfter, strconv.Itoa(max(seconds, 1)))
}

func SetRequestHeaderSessionID(r *http.Request, sessionID string) {
	r.Header.Set(XSessionID, sessionID)
}

func GetRequestHeaderSessionID(r *http.Request) string {
	return r.Header.Get(XSessionID)
}

// GetDeviceID returns the device a request belongs to, or "default".
func GetDeviceID(r *http.Request) string {
	const defaultDevice = "default"
	if id := r.Header.Get(XDeviceID); id != "" {
		return id
	}
	return defaultDevice
}

func IsEventStream(r *http.Request) bool {
	return r.Header.Get(Accept) == TextEventStream
}
