package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/account_recon_app/internal/utils/pagination"
)

func TestTokenRoundTrip(t *testing.T) {
	postingDate := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	voucherNo := "SINV-2025-0042"

	token := pagination.EncodeToken(postingDate, voucherNo)
	require.NotEmpty(t, token)

	gotDate, gotVoucher, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, postingDate.Equal(gotDate))
	assert.Equal(t, voucherNo, gotVoucher)
}

func TestTokenRoundTripWithSeparatorInVoucher(t *testing.T) {
	postingDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	voucherNo := "ODD|VOUCHER|NO"

	token := pagination.EncodeToken(postingDate, voucherNo)
	gotDate, gotVoucher, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, postingDate.Equal(gotDate))
	assert.Equal(t, voucherNo, gotVoucher)
}

func TestDecodeTokenInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "!!!not-base64!!!"},
		{name: "missing separator", token: "bm8tc2VwYXJhdG9y"},        // "no-separator"
		{name: "bad date", token: "bm90LWEtZGF0ZXxTSU5WLTAwMQ=="},     // "not-a-date|SINV-001"
		{name: "empty", token: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestDateBasedTokenRoundTrip(t *testing.T) {
	date := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	token := pagination.EncodeDateBasedToken(date)
	got, err := pagination.DecodeDateBasedToken(token)
	require.NoError(t, err)
	assert.True(t, date.Equal(got))
}

func TestDecodeDateBasedTokenInvalid(t *testing.T) {
	_, err := pagination.DecodeDateBasedToken("!!!")
	assert.Error(t, err)

	_, err = pagination.DecodeDateBasedToken("bm90LWEtZGF0ZQ==") // "not-a-date"
	assert.Error(t, err)
}
