package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "ordinary positive", amount: "100.5", wantErr: false},
		{name: "max fractional digits", amount: "1.12345678", wantErr: false},
		{name: "at magnitude limit", amount: "10000000", wantErr: false},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-5", wantErr: true},
		{name: "too many fractional digits", amount: "1.123456789", wantErr: true},
		{name: "over magnitude", amount: "10000000.01", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.amount, err)
			}

			err = ValidateAmount("amount", amount)

			if tt.wantErr && err == nil {
				t.Fatalf("ValidateAmount(%s): want error, got nil", tt.amount)
			}

			if !tt.wantErr && err != nil {
				t.Fatalf("ValidateAmount(%s): want nil, got %v", tt.amount, err)
			}

			var derr *Error
			if tt.wantErr && !errors.As(err, &derr) {
				t.Fatalf("ValidateAmount(%s): want *Error, got %T", tt.amount, err)
			}
		})
	}
}
