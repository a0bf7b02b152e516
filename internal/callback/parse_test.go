package callback

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFormEncoded(t *testing.T) {
	body := "status=berhasil&reference_id=REF123&amount=50000&trx_id=98765&status_code=1&via=qris&channel=mpm&buyer_name=Budi"
	rec, err := Parse("application/x-www-form-urlencoded", []byte(body))
	require.NoError(t, err)
	require.Equal(t, "REF123", rec.ReferenceID)
	require.Equal(t, "berhasil", rec.Status)
	require.Equal(t, "50000", rec.Amount)
	require.Equal(t, "98765", rec.TrxID)
	require.Equal(t, "1", rec.StatusCode)
	require.Equal(t, "qris", rec.Via)
	require.Equal(t, "Budi", rec.BuyerName)
	require.Equal(t, SourceProduction, rec.Source)
}

func TestParseFormWithCharsetParam(t *testing.T) {
	rec, err := Parse("application/x-www-form-urlencoded; charset=utf-8", []byte("reference_id=REF1&status=expired"))
	require.NoError(t, err)
	require.Equal(t, "REF1", rec.ReferenceID)
	require.Equal(t, "expired", rec.Status)
}

func TestParseJSONSimulation(t *testing.T) {
	body := `{"reference_id":"REF456","status":"berhasil","amount":75000,"trx_id":"11"}`
	rec, err := Parse("application/json", []byte(body))
	require.NoError(t, err)
	require.Equal(t, "REF456", rec.ReferenceID)
	require.Equal(t, "berhasil", rec.Status)
	// numeric amount keeps its wire form
	require.Equal(t, "75000", rec.Amount)
	require.Equal(t, SourceSimulation, rec.Source)
}

func TestParseDeclaredJSONInvalidIsError(t *testing.T) {
	_, err := Parse("application/json", []byte("definitely not json"))
	require.Error(t, err)
}

func TestParseUnknownContentTypeAutoDetectsJSON(t *testing.T) {
	rec, err := Parse("text/plain", []byte(`{"reference_id":"REF789","status":"pending"}`))
	require.NoError(t, err)
	require.Equal(t, "REF789", rec.ReferenceID)
	require.Equal(t, SourceAutoDetected, rec.Source)
}

func TestParseUnparseableBodyKeptAsRaw(t *testing.T) {
	rec, err := Parse("", []byte("garbage payload"))
	require.NoError(t, err)
	require.Equal(t, SourceUnknown, rec.Source)
	require.Equal(t, "garbage payload", rec.Raw)
	require.Empty(t, rec.ReferenceID)
}

func TestParseMissingFieldsStayUnset(t *testing.T) {
	rec, err := Parse("application/x-www-form-urlencoded", []byte("reference_id=REF1"))
	require.NoError(t, err)
	require.Empty(t, rec.Status)
	require.Empty(t, rec.Amount)
	require.Empty(t, rec.PaidAt)
}
