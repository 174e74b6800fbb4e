package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"p2p_market/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Access token",
			input:  []byte(`{"accessToken":"eyJhbGciOiJFUzI1NiIsInR5cC","refreshToken":"eyJhbGciOiJFUzI1NiIsInR5cCI6IkpXVCJ9"}`),
			output: []byte(`{"accessToken":"[MASKED]","refreshToken":"[MASKED]"}`),
		},
		{
			name:   "Offer payload identity fields",
			input:  []byte(`{"id": "off-1", "pub_key_ring": "MIIBIjANBgkq", "hash_of_challenge": "1f3870be274f6c49"}`),
			output: []byte(`{"id": "off-1", "pub_key_ring": "[MASKED]", "hash_of_challenge": "[MASKED]"}`),
		},
		{
			name:   "Payment account fields",
			input:  []byte(`{"account_name": "Main SEPA", "email": "john@doe.com", "payment_method_id": "SEPA"}`),
			output: []byte(`{"account_name": "[MASKED]", "email": "[MASKED]", "payment_method_id": "SEPA"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
