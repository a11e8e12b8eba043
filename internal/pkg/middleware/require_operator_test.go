package middleware

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestIsOperator(t *testing.T) {
	viper.Set("OPERATOR_EMAILS", "ops@flipcard.io, admin@flipcard.io")
	t.Cleanup(func() { viper.Set("OPERATOR_EMAILS", "") })

	assert.True(t, IsOperator("ops@flipcard.io"))
	assert.True(t, IsOperator("admin@flipcard.io"))
	assert.True(t, IsOperator("ADMIN@flipcard.io"))

	assert.False(t, IsOperator("player@flipcard.io"))
	assert.False(t, IsOperator(""))
}

func TestIsOperatorWithUnsetRoster(t *testing.T) {
	viper.Set("OPERATOR_EMAILS", "")
	assert.False(t, IsOperator("ops@flipcard.io"))
	assert.False(t, IsOperator(""))
}
