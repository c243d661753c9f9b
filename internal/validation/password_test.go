package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secret123"))
	assert.Error(t, ValidatePassword("Sec1"))
	assert.Error(t, ValidatePassword("secret123"))
	assert.Error(t, ValidatePassword("SECRET123"))
	assert.Error(t, ValidatePassword("SecretSecret"))
	assert.Error(t, ValidatePassword("Aa1"+strings.Repeat("x", 80)))
}
