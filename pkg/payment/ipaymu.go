package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const rawSnippetLen = 200

// IPaymuConfig carries everything the provider needs; NotifyURL is where
// the gateway posts status callbacks, ReturnURL where the buyer lands.
type IPaymuConfig struct {
	BaseURL   string
	VA        string
	APIKey    string
	NotifyURL string
	ReturnURL string
	MinAmount int64
	Timeout   time.Duration
}

// IPaymuProvider creates QRIS payment sessions against the iPaymu direct
// API. Requests are signed with the va/signature/timestamp header scheme
// the gateway mandates.
type IPaymuProvider struct {
	cfg    IPaymuConfig
	client *http.Client
}

func NewIPaymuProvider(cfg IPaymuConfig) *IPaymuProvider {
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &IPaymuProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type ipaymuRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Amount        int64  `json:"amount"`
	NotifyURL     string `json:"notifyUrl"`
	ReturnURL     string `json:"returnUrl"`
	ReferenceID   string `json:"referenceId"`
	PaymentMethod string `json:"paymentMethod"`
	Expired       int    `json:"expired"`
	ExpiredType   string `json:"expiredType"`
	Comments      string `json:"comments"`
}

func (p *IPaymuProvider) CreatePayment(ctx context.Context, req Request) (*Response, error) {
	if p.cfg.VA == "" || p.cfg.APIKey == "" || p.cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	if req.Amount < p.cfg.MinAmount {
		return nil, fmt.Errorf("%w: minimum is %d", ErrBelowMinimum, p.cfg.MinAmount)
	}

	referenceID := newReferenceID()
	payload := ipaymuRequest{
		Name:          orDefault(req.BuyerName, "Customer"),
		Phone:         orDefault(req.BuyerPhone, "081234567890"),
		Email:         orDefault(req.BuyerEmail, "customer@email.com"),
		Amount:        req.Amount,
		NotifyURL:     p.cfg.NotifyURL,
		ReturnURL:     p.cfg.ReturnURL,
		ReferenceID:   referenceID,
		PaymentMethod: "qris",
		Expired:       24,
		ExpiredType:   "hours",
		Comments:      orDefault(req.Comments, "QRIS Payment"),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("va", p.cfg.VA)
	apiReq.Header.Set("signature", p.signature(http.MethodPost, body))
	apiReq.Header.Set("timestamp", timestamp(time.Now()))

	log.Printf("[IPAYMU] POST %s reference_id=%s amount=%d", p.cfg.BaseURL, referenceID, req.Amount)
	start := time.Now()
	resp, err := p.client.Do(apiReq)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("[IPAYMU] response status=%d in %s body=%s", resp.StatusCode, time.Since(start).Round(time.Millisecond), snippet(respBody))

	if !json.Valid(respBody) {
		return nil, &MalformedResponseError{Snippet: snippet(respBody)}
	}
	return &Response{ReferenceID: referenceID, Body: respBody}, nil
}

// signature hashes the exact request body, concatenates
// METHOD:va:bodyHash:apiKey and HMAC-SHA256s that string with the API key.
// Both digests are lowercase hex; the gateway rejects anything else.
func (p *IPaymuProvider) signature(method string, body []byte) string {
	bodyHash := sha256.Sum256(body)
	stringToSign := method + ":" + p.cfg.VA + ":" + hex.EncodeToString(bodyHash[:]) + ":" + p.cfg.APIKey
	mac := hmac.New(sha256.New, []byte(p.cfg.APIKey))
	mac.Write([]byte(stringToSign))
	return hex.EncodeToString(mac.Sum(nil))
}

// timestamp renders local time as YYYYMMDDHHmmss, the header format the
// gateway expects.
func timestamp(t time.Time) string {
	return t.Format("20060102150405")
}

// newReferenceID derives a unique token from the wall clock. Collisions
// are effectively impossible at POS request volume.
func newReferenceID() string {
	return "REF" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func snippet(b []byte) string {
	if len(b) <= rawSnippetLen {
		return string(b)
	}
	return string(b[:rawSnippetLen]) + "..."
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
