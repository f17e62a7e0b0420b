package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		want    int64
		wantErr error
	}{
		{name: "whole amount", amount: "150", want: 15000},
		{name: "with kopecks", amount: "99.99", want: 9999},
		{name: "zero", amount: "0", want: 0},
		{name: "single kopeck", amount: "0.01", want: 1},
		{name: "negative", amount: "-10", wantErr: ErrNegativeAmount},
		{name: "sub-kopeck precision", amount: "10.001", wantErr: ErrPrecisionLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinorUnits_RoundTrip(t *testing.T) {
	amounts := []string{"150", "99.99", "0.01", "1234.50"}

	for _, s := range amounts {
		amount := decimal.RequireFromString(s)
		minor, err := ToMinorUnits(amount)
		require.NoError(t, err)
		assert.True(t, FromMinorUnits(minor).Equal(amount), "round trip for %s", s)
	}
}
