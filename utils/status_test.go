package utils

import (
	"testing"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusDispatched, true},
		{models.OrderStatusPacked, models.OrderStatusPacked, true},
		{models.OrderStatusDispatched, models.OrderStatusPacked, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusOutForDelivery, models.OrderStatusCancelled, true},
		{models.OrderStatusConfirmed, models.OrderStatusCancellationRequested, true},
		{models.OrderStatusPacked, models.OrderStatusCancellationRequested, false},
		{models.OrderStatusCancellationRequested, models.OrderStatusConfirmed, true},
		{models.OrderStatusCancellationRequested, models.OrderStatusPacked, false},
		{models.OrderStatusPending, "Shipped", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+" to "+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionOrder(tt.from, tt.to))
		})
	}
}

func TestCanRequestCancellation(t *testing.T) {
	assert.True(t, CanRequestCancellation(models.OrderStatusPending))
	assert.True(t, CanRequestCancellation(models.OrderStatusConfirmed))
	assert.False(t, CanRequestCancellation(models.OrderStatusPacked))
	assert.False(t, CanRequestCancellation(models.OrderStatusDelivered))
}

func TestBuildOrderTracker(t *testing.T) {
	tracker := BuildOrderTracker(models.OrderStatusPacked)
	assert.False(t, tracker.Cancelled)
	assert.Len(t, tracker.Steps, 6)
	assert.True(t, tracker.Steps[2].Reached)
	assert.True(t, tracker.Steps[2].Current)
	assert.False(t, tracker.Steps[3].Reached)

	cancelled := BuildOrderTracker(models.OrderStatusCancelled)
	assert.True(t, cancelled.Cancelled)
	assert.True(t, cancelled.Steps[0].Reached)
	assert.False(t, cancelled.Steps[0].Current)
	assert.False(t, cancelled.Steps[1].Reached)
}

func TestCanTransitionReturn(t *testing.T) {
	assert.True(t, CanTransitionReturn(models.ReturnTypeReturn, models.ReturnStatusPending, models.ReturnStatusApproved))
	assert.True(t, CanTransitionReturn(models.ReturnTypeReturn, models.ReturnStatusApproved, models.ReturnStatusRefundInitiated))
	assert.False(t, CanTransitionReturn(models.ReturnTypeReturn, models.ReturnStatusApproved, models.ReturnStatusReplacementDispatched))
	assert.True(t, CanTransitionReturn(models.ReturnTypeReplacement, models.ReturnStatusReceivedAtWarehouse, models.ReturnStatusReplacementDispatched))
	assert.False(t, CanTransitionReturn(models.ReturnTypeCancellation, models.ReturnStatusApproved, models.ReturnStatusPickupScheduled))

	assert.True(t, CanTransitionReturn(models.ReturnTypeReturn, models.ReturnStatusApproved, models.ReturnStatusRejected))
	assert.False(t, CanTransitionReturn(models.ReturnTypeReturn, models.ReturnStatusPickupScheduled, models.ReturnStatusRejected))
	assert.False(t, CanTransitionReturn(models.ReturnTypeReturn, models.ReturnStatusCompleted, models.ReturnStatusRejected))
	assert.False(t, CanTransitionReturn(models.ReturnTypeReturn, models.ReturnStatusRefundInitiated, models.ReturnStatusApproved))
	assert.False(t, CanTransitionReturn("Exchange", models.ReturnStatusPending, models.ReturnStatusApproved))
}

func TestReturnItemStatus(t *testing.T) {
	assert.Equal(t, models.ItemStatusReturnRequested, RequestedItemStatus(models.ReturnTypeReturn))
	assert.Equal(t, models.ItemStatusReplacementRequested, RequestedItemStatus(models.ReturnTypeReplacement))

	assert.Equal(t, models.ItemStatusReturned, ItemStatusForReturn(models.ReturnTypeReturn, models.ReturnStatusCompleted))
	assert.Equal(t, models.ItemStatusReplaced, ItemStatusForReturn(models.ReturnTypeReplacement, models.ReturnStatusCompleted))
	assert.Equal(t, models.OrderStatusDelivered, ItemStatusForReturn(models.ReturnTypeReturn, models.ReturnStatusRejected))
	assert.Equal(t, models.ReturnStatusPickupScheduled, ItemStatusForReturn(models.ReturnTypeReturn, models.ReturnStatusPickupScheduled))
}
