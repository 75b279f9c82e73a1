package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name        string
		raw         string
		countryCode string
		want        string
		wantErr     bool
	}{
		{"formatted international", "+91 99001 12233", "91", "919900112233", false},
		{"already normalized", "919900112233", "91", "919900112233", false},
		{"leading zero gets country code", "09900112233", "91", "919900112233", false},
		{"leading zeroes collapse", "009900112233", "91", "919900112233", false},
		{"leading zero without country code", "09900112233", "", "09900112233", false},
		{"punctuation stripped", "(91) 99001-12233", "91", "919900112233", false},
		{"too short", "12345", "91", "", true},
		{"letters only", "not a phone", "91", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.raw, tc.countryCode)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsErrorKind(err, ErrKindInvalidRecipient))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOptKeywords(t *testing.T) {
	assert.True(t, IsOptOutKeyword("STOP"))
	assert.True(t, IsOptOutKeyword("  stop  "))
	assert.True(t, IsOptOutKeyword("Unsubscribe"))
	assert.False(t, IsOptOutKeyword("please stop"))
	assert.False(t, IsOptOutKeyword(""))

	assert.True(t, IsOptInKeyword("START"))
	assert.True(t, IsOptInKeyword("unstop"))
	assert.False(t, IsOptInKeyword("STOP"))
}

func TestContactIsOptedOut(t *testing.T) {
	c := &Contact{OptIn: OptInState{Status: true, Via: OptInViaInboundMessage}}
	assert.False(t, c.IsOptedOut())

	c.OptIn.Status = false
	assert.True(t, c.IsOptedOut())
}
