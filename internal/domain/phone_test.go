package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain digits", raw: "992900112233", want: "992900112233"},
		{name: "plus prefix", raw: "+992900112233", want: "+992900112233"},
		{name: "whitespace stripped", raw: " +992 900 11 22 33 ", want: "+992900112233"},
		{name: "too short", raw: "12345", wantErr: true},
		{name: "letters", raw: "99abc0112233", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, err := NewPhoneNumber(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, phone.String())
		})
	}
}
