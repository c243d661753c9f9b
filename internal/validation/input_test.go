package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "seller_01", false},
		{"too short", "ab", true},
		{"starts with digit", "1seller", true},
		{"bad symbols", "seller-01", true},
		{"empty", "   ", true},
		{"too long", "abcdefghijklmnopqrstuvwxyz12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("Buyer@Example.com"))
	assert.Error(t, ValidateEmail("buyer.example.com"))
	assert.Error(t, ValidateEmail("buyer@example"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateRating(t *testing.T) {
	assert.NoError(t, ValidateRating(1))
	assert.NoError(t, ValidateRating(10))
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(11))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(9.99))
	assert.Error(t, ValidatePrice(0))
	assert.Error(t, ValidatePrice(-1))
	assert.Error(t, ValidatePrice(math.NaN()))
}

func TestValidateIPAddress(t *testing.T) {
	assert.NoError(t, ValidateIPAddress("203.0.113.7"))
	assert.NoError(t, ValidateIPAddress("2001:db8::1"))
	assert.Error(t, ValidateIPAddress("unknown"))
	assert.Error(t, ValidateIPAddress(""))
}
