package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestCount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want GuestCount
	}{
		{`2`, 2},
		{`"4"`, 4},
		{`" 3 "`, 3},
		{`2.0`, 2},
		{`"abc"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var req BookingRequest
			err := json.Unmarshal([]byte(`{"guests":`+tt.in+`}`), &req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Guests)
		})
	}
}

func TestUser_PassHashNeverSerialized(t *testing.T) {
	data, err := json.Marshal(User{ID: "1", Email: "a@b.c", PassHash: []byte("hash")})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
	assert.NotContains(t, string(data), "password")
}

func TestBooking_JSONUsesUnderscoreID(t *testing.T) {
	data, err := json.Marshal(Booking{ID: "mem_1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"_id":"mem_1"`)
	assert.NotContains(t, string(data), `"user"`)
}
