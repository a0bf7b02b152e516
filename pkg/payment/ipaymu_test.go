package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) IPaymuConfig {
	return IPaymuConfig{
		BaseURL:   baseURL,
		VA:        "0000001234567890",
		APIKey:    "SANDBOX-APIKEY",
		NotifyURL: "https://pos.example.com/api/v1/payments/callback",
		ReturnURL: "https://pos.example.com/success.html",
		MinAmount: 1000,
		Timeout:   2 * time.Second,
	}
}

func TestSignatureScheme(t *testing.T) {
	p := NewIPaymuProvider(testConfig("https://sandbox.ipaymu.com/api/v2/payment/direct"))
	body := []byte(`{"amount":50000}`)

	got := p.signature(http.MethodPost, body)

	bodyHash := sha256.Sum256(body)
	stringToSign := "POST:0000001234567890:" + hex.EncodeToString(bodyHash[:]) + ":SANDBOX-APIKEY"
	mac := hmac.New(sha256.New, []byte("SANDBOX-APIKEY"))
	mac.Write([]byte(stringToSign))
	require.Equal(t, hex.EncodeToString(mac.Sum(nil)), got)
	require.Equal(t, strings.ToLower(got), got)
	require.Len(t, got, 64)
}

func TestTimestampFormat(t *testing.T) {
	ts := timestamp(time.Date(2025, 3, 7, 9, 5, 2, 0, time.Local))
	require.Equal(t, "20250307090502", ts)
}

func TestCreatePaymentNotConfigured(t *testing.T) {
	p := NewIPaymuProvider(IPaymuConfig{})
	_, err := p.CreatePayment(context.Background(), Request{Amount: 50000})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreatePaymentBelowMinimumSkipsGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called for a below-minimum amount")
	}))
	defer srv.Close()

	p := NewIPaymuProvider(testConfig(srv.URL))
	_, err := p.CreatePayment(context.Background(), Request{Amount: 500})
	require.ErrorIs(t, err, ErrBelowMinimum)
}

func TestCreatePaymentSignsAndRelaysResponse(t *testing.T) {
	gatewayReply := `{"Status":200,"Data":{"SessionId":"abc","QrString":"00020101021226..."}}`
	var gotBody []byte
	var gotVA, gotSig, gotTS string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotVA = r.Header.Get("va")
		gotSig = r.Header.Get("signature")
		gotTS = r.Header.Get("timestamp")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, gatewayReply)
	}))
	defer srv.Close()

	p := NewIPaymuProvider(testConfig(srv.URL))
	resp, err := p.CreatePayment(context.Background(), Request{Amount: 50000})
	require.NoError(t, err)
	require.Equal(t, gatewayReply, string(resp.Body))
	require.True(t, strings.HasPrefix(resp.ReferenceID, "REF"))

	// headers carry the va/signature/timestamp scheme
	require.Equal(t, "0000001234567890", gotVA)
	require.Equal(t, p.signature(http.MethodPost, gotBody), gotSig)
	require.Regexp(t, regexp.MustCompile(`^\d{14}$`), gotTS)

	// canonical body fields
	var sent map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	require.Equal(t, resp.ReferenceID, sent["referenceId"])
	require.Equal(t, "qris", sent["paymentMethod"])
	require.Equal(t, float64(50000), sent["amount"])
	require.Equal(t, "https://pos.example.com/api/v1/payments/callback", sent["notifyUrl"])
	require.Equal(t, float64(24), sent["expired"])
	require.Equal(t, "hours", sent["expiredType"])
}

func TestCreatePaymentTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	p := NewIPaymuProvider(cfg)

	_, err := p.CreatePayment(context.Background(), Request{Amount: 50000})
	require.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestCreatePaymentMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>502 Bad Gateway</html>")
	}))
	defer srv.Close()

	p := NewIPaymuProvider(testConfig(srv.URL))
	_, err := p.CreatePayment(context.Background(), Request{Amount: 50000})

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	require.Contains(t, malformed.Snippet, "502 Bad Gateway")
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	s := snippet([]byte(long))
	require.Len(t, s, rawSnippetLen+3)
	require.True(t, strings.HasSuffix(s, "..."))
}
