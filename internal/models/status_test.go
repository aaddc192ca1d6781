package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusPending, OrderStatusDeclined},
		{OrderStatusProcessing, OrderStatusCompleted},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusDeclined},
		{OrderStatusCompleted, OrderStatusCancelled},
		{OrderStatusCompleted, OrderStatusDeclined},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusProcessing},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusCompleted},
		{OrderStatusCompleted, OrderStatusPending},
		{OrderStatusCompleted, OrderStatusProcessing},
		{OrderStatusCancelled, OrderStatusCompleted},
		{OrderStatusCancelled, OrderStatusDeclined},
		{OrderStatusDeclined, OrderStatusPending},
		{OrderStatusDeclined, OrderStatusCancelled},
		{OrderStatusPending, OrderStatusPending},
		{"bogus", OrderStatusPending},
		{OrderStatusPending, "bogus"},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestCustomerCanCancel(t *testing.T) {
	assert.True(t, CustomerCanCancel(OrderStatusPending))

	for _, status := range []string{
		OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled, OrderStatusDeclined,
	} {
		assert.False(t, CustomerCanCancel(status), "customer must not cancel a %s order", status)
	}
}

func TestRestoresInventory(t *testing.T) {
	assert.True(t, RestoresInventory(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, RestoresInventory(OrderStatusProcessing, OrderStatusCancelled))
	assert.True(t, RestoresInventory(OrderStatusCompleted, OrderStatusCancelled))
	assert.True(t, RestoresInventory(OrderStatusPending, OrderStatusDeclined))
	assert.True(t, RestoresInventory(OrderStatusProcessing, OrderStatusDeclined))
	assert.True(t, RestoresInventory(OrderStatusCompleted, OrderStatusDeclined))

	assert.False(t, RestoresInventory(OrderStatusCancelled, OrderStatusDeclined),
		"already-restored stock must not be restored twice")
	assert.False(t, RestoresInventory(OrderStatusPending, OrderStatusProcessing))
	assert.False(t, RestoresInventory(OrderStatusProcessing, OrderStatusCompleted))
}

func TestRedeductsInventory(t *testing.T) {
	assert.True(t, RedeductsInventory(OrderStatusCancelled, OrderStatusPending))
	assert.True(t, RedeductsInventory(OrderStatusCancelled, OrderStatusProcessing))

	assert.False(t, RedeductsInventory(OrderStatusPending, OrderStatusProcessing))
	assert.False(t, RedeductsInventory(OrderStatusDeclined, OrderStatusPending))
	assert.False(t, RedeductsInventory(OrderStatusCancelled, OrderStatusCompleted))
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses() {
		assert.True(t, IsValidOrderStatus(status))
	}
	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus(""))
}
