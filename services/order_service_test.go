package services

import (
	"errors"
	"testing"
	"time"

	"galleryshare/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderTotals(t *testing.T) {
	items := []models.OrderItem{
		{Price: 12.50, Quantity: 2},
		{Price: 4.99, Quantity: 3},
	}

	subtotal, total := OrderTotals(items, 5.90)
	assert.Equal(t, 39.97, subtotal)
	assert.Equal(t, 45.87, total)
}

func TestOrderTotalsEmpty(t *testing.T) {
	subtotal, total := OrderTotals(nil, 5.90)
	assert.Equal(t, 0.0, subtotal)
	assert.Equal(t, 5.90, total)
}

func TestCheckStatusTransition(t *testing.T) {
	nonTerminal := []string{
		models.OrderStatusPending, models.OrderStatusPaid,
		models.OrderStatusProcessing, models.OrderStatusShipped,
	}

	// Free movement among non-terminal states, plus into either terminal.
	for _, from := range nonTerminal {
		for _, to := range []string{
			models.OrderStatusPending, models.OrderStatusPaid,
			models.OrderStatusProcessing, models.OrderStatusShipped,
			models.OrderStatusCompleted, models.OrderStatusCancelled,
		} {
			if from == to {
				continue
			}
			assert.NoError(t, CheckStatusTransition(from, to), "%s -> %s", from, to)
		}
	}

	// Terminal states never move again.
	for _, from := range []string{models.OrderStatusCompleted, models.OrderStatusCancelled} {
		err := CheckStatusTransition(from, models.OrderStatusPending)
		assert.True(t, errors.Is(err, ErrConflict), "%s should be terminal", from)
	}

	// Setting the current status is a validation error, not a no-op.
	err := CheckStatusTransition(models.OrderStatusPaid, models.OrderStatusPaid)
	assert.True(t, errors.Is(err, ErrValidation))

	// Unknown target status.
	err = CheckStatusTransition(models.OrderStatusPending, "refunded")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	number := newOrderNumber(now)
	assert.Regexp(t, `^GS-20260831-[A-Z0-9]{8}$`, number)

	// Two orders on the same day must not collide.
	assert.NotEqual(t, number, newOrderNumber(now))
}
