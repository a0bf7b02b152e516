package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means a required gateway credential or URL is
	// missing; surfaced before any network call.
	ErrNotConfigured = errors.New("payment gateway not configured")
	// ErrBelowMinimum rejects amounts under the gateway minimum locally.
	ErrBelowMinimum = errors.New("amount below minimum")
	// ErrGatewayTimeout marks a create-payment call abandoned at the
	// deadline; the caller can offer "try again".
	ErrGatewayTimeout = errors.New("payment gateway timeout")
)

// Request describes one payment to create. Buyer fields are optional; the
// provider substitutes POS walk-in defaults.
type Request struct {
	Amount     int64
	BuyerName  string
	BuyerPhone string
	BuyerEmail string
	Comments   string
}

// Response is the gateway's reply, verbatim. ReferenceID is assigned by us
// before the call and correlates all later callbacks and polls.
type Response struct {
	ReferenceID string
	Body        json.RawMessage
}

// MalformedResponseError reports a non-JSON gateway body. Snippet holds at
// most the first 200 bytes for visibility without dumping the payload.
type MalformedResponseError struct {
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed gateway response: %s", e.Snippet)
}

type Provider interface {
	CreatePayment(ctx context.Context, req Request) (*Response, error)
}
