// Package callback normalizes inbound gateway notifications into status
// records. iPaymu sends form-urlencoded in production and JSON from its
// simulator; anything else gets a best-effort JSON parse before being kept
// as an opaque raw payload.
package callback

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/url"

	"kasirpay/internal/status"
)

// Provenance tags recorded on every normalized payload.
const (
	SourceProduction   = "ipaymu_production"
	SourceSimulation   = "ipaymu_simulation"
	SourceAutoDetected = "auto_detected"
	SourceUnknown      = "unknown"
)

type parseFunc func(body []byte) (status.Record, error)

var parsers = map[string]parseFunc{
	"application/x-www-form-urlencoded": parseForm,
	"application/json":                  parseSimulationJSON,
}

// Parse normalizes a raw callback body according to its declared content
// type. Unrecognized content types fall back to a JSON attempt and then to
// an opaque raw record; only a body that fails its *declared* encoding is
// a parse error.
func Parse(contentType string, body []byte) (status.Record, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}
	if parse, ok := parsers[mediaType]; ok {
		return parse(body)
	}
	if rec, err := decodeJSON(body); err == nil {
		rec.Source = SourceAutoDetected
		return rec, nil
	}
	return status.Record{Raw: string(body), Source: SourceUnknown}, nil
}

func parseForm(body []byte) (status.Record, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return status.Record{}, err
	}
	return status.Record{
		TrxID:            values.Get("trx_id"),
		Status:           values.Get("status"),
		StatusCode:       values.Get("status_code"),
		SID:              values.Get("sid"),
		ReferenceID:      values.Get("reference_id"),
		Amount:           values.Get("amount"),
		PaidAt:           values.Get("paid_at"),
		SubTotal:         values.Get("sub_total"),
		Total:            values.Get("total"),
		Fee:              values.Get("fee"),
		PaidOff:          values.Get("paid_off"),
		CreatedAt:        values.Get("created_at"),
		ExpiredAt:        values.Get("expired_at"),
		SettlementStatus: values.Get("settlement_status"),
		Via:              values.Get("via"),
		Channel:          values.Get("channel"),
		BuyerName:        values.Get("buyer_name"),
		BuyerEmail:       values.Get("buyer_email"),
		BuyerPhone:       values.Get("buyer_phone"),
		Source:           SourceProduction,
	}, nil
}

func parseSimulationJSON(body []byte) (status.Record, error) {
	rec, err := decodeJSON(body)
	if err != nil {
		return status.Record{}, err
	}
	rec.Source = SourceSimulation
	return rec, nil
}

// decodeJSON extracts the fixed field set from a JSON object. Numbers are
// kept in their wire form so an amount of 50000 round-trips as "50000".
func decodeJSON(body []byte) (status.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return status.Record{}, err
	}
	field := func(key string) string {
		switch v := payload[key].(type) {
		case string:
			return v
		case json.Number:
			return v.String()
		default:
			return ""
		}
	}
	return status.Record{
		TrxID:            field("trx_id"),
		Status:           field("status"),
		StatusCode:       field("status_code"),
		SID:              field("sid"),
		ReferenceID:      field("reference_id"),
		Amount:           field("amount"),
		PaidAt:           field("paid_at"),
		SubTotal:         field("sub_total"),
		Total:            field("total"),
		Fee:              field("fee"),
		PaidOff:          field("paid_off"),
		CreatedAt:        field("created_at"),
		ExpiredAt:        field("expired_at"),
		SettlementStatus: field("settlement_status"),
		Via:              field("via"),
		Channel:          field("channel"),
		BuyerName:        field("buyer_name"),
		BuyerEmail:       field("buyer_email"),
		BuyerPhone:       field("buyer_phone"),
	}, nil
}
