package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to CheckoutStatus
		want     bool
	}{
		{CheckoutStatusIdle, CheckoutStatusValidating, true},
		{CheckoutStatusValidating, CheckoutStatusValidating, true},
		{CheckoutStatusValidating, CheckoutStatusStockChecking, true},
		{CheckoutStatusStockChecking, CheckoutStatusSubmitting, true},
		{CheckoutStatusStockChecking, CheckoutStatusFailed, true},
		{CheckoutStatusSubmitting, CheckoutStatusConfirmed, true},
		{CheckoutStatusSubmitting, CheckoutStatusFailed, true},
		{CheckoutStatusFailed, CheckoutStatusIdle, true},

		{CheckoutStatusIdle, CheckoutStatusSubmitting, false},
		{CheckoutStatusValidating, CheckoutStatusSubmitting, false},
		{CheckoutStatusConfirmed, CheckoutStatusIdle, false},
		{CheckoutStatusConfirmed, CheckoutStatusValidating, false},
		{CheckoutStatusFailed, CheckoutStatusSubmitting, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, CheckoutStatusConfirmed.IsTerminal())
	assert.False(t, CheckoutStatusFailed.IsTerminal())
	assert.False(t, CheckoutStatusIdle.IsTerminal())
}
