package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/maryline/catalogsync/internal/transport"
	"github.com/maryline/catalogsync/pkg/errors"
)

// Kind classifies the result of a gateway call.
type Kind int

// Outcome kinds.
const (
	KindSuccess Kind = iota
	KindClientError
	KindRateLimited
	KindServerError
	KindTransportFailure
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindClientError:
		return "client_error"
	case KindRateLimited:
		return "rate_limited"
	case KindServerError:
		return "server_error"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of Execute. Expected failures are values,
// not errors; callers decide whether an outcome skips or aborts their unit.
type Outcome struct {
	Kind       Kind
	Status     int
	Payload    []byte
	Cause      error
	Attempts   int
	RetryAfter time.Duration

	Service string
	Method  string
	URL     string
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Err converts a failed outcome into a typed error. It returns nil on success.
func (o Outcome) Err() error {
	switch o.Kind {
	case KindSuccess:
		return nil
	case KindTransportFailure:
		return &errors.TransportError{
			Method:   o.Method,
			Endpoint: o.URL,
			Attempts: o.Attempts,
			Err:      o.Cause,
		}
	default:
		return &errors.APIError{
			Service:    o.Service,
			StatusCode: o.Status,
			Method:     o.Method,
			Endpoint:   o.URL,
			Message:    string(o.Payload),
			Attempts:   o.Attempts,
		}
	}
}

// classify maps a transport result onto an Outcome.
func classify(resp *transport.Response, err error) Outcome {
	if err != nil {
		return Outcome{Kind: KindTransportFailure, Cause: err}
	}

	out := Outcome{Status: resp.StatusCode, Payload: resp.Body}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		out.Kind = KindSuccess
	case resp.StatusCode == http.StatusTooManyRequests:
		out.Kind = KindRateLimited
		out.RetryAfter = retryAfter(resp.Header)
	case resp.StatusCode >= 500:
		out.Kind = KindServerError
	default:
		out.Kind = KindClientError
	}
	return out
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
