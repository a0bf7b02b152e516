package status

import "time"

// Payment status values iPaymu reports. Anything else is passed through
// verbatim; the gateway owns the vocabulary.
const (
	StatusPending   = "pending"
	StatusSucceeded = "berhasil"
	StatusExpired   = "expired"
)

// Record is the last-known state of one payment attempt, keyed by the
// reference id assigned at creation time and echoed by the gateway.
// Fields missing from a callback stay empty; nothing is inferred.
type Record struct {
	ReferenceID      string `json:"reference_id"`
	TrxID            string `json:"trx_id"`
	Status           string `json:"status"`
	StatusCode       string `json:"status_code"`
	SID              string `json:"sid"`
	Amount           string `json:"amount"`
	PaidAt           string `json:"paid_at"`
	SubTotal         string `json:"sub_total"`
	Total            string `json:"total"`
	Fee              string `json:"fee"`
	PaidOff          string `json:"paid_off"`
	CreatedAt        string `json:"created_at"`
	ExpiredAt        string `json:"expired_at"`
	SettlementStatus string `json:"settlement_status"`
	Via              string `json:"via"`
	Channel          string `json:"channel"`
	BuyerName        string `json:"buyer_name"`
	BuyerEmail       string `json:"buyer_email"`
	BuyerPhone       string `json:"buyer_phone"`

	// Raw holds the untouched body when no parser recognized the payload.
	Raw string `json:"raw,omitempty"`
	// Source tags which transport/format produced this record.
	Source string `json:"source"`

	ReceivedAt time.Time `json:"received_at"`
	Processed  bool      `json:"processed"`
}

// Terminal reports whether no further status change is expected.
func (r Record) Terminal() bool {
	return r.Status == StatusSucceeded || r.Status == StatusExpired
}

func (r Record) Succeeded() bool { return r.Status == StatusSucceeded }
