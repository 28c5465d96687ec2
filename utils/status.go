package utils

import (
	"github.com/Govind-619/StoreSphere/models"
)

// orderFlow is the fulfilment sequence shown on the order tracker
var orderFlow = []string{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusPacked,
	models.OrderStatusDispatched,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// IsValidOrderStatus reports whether s is a known order status
func IsValidOrderStatus(s string) bool {
	return indexOf(models.OrderStatuses, s) >= 0
}

// CanTransitionOrder reports whether an admin may move an order from one status to another.
// Fulfilment only moves forward (steps may be skipped). Delivered and Cancelled are final.
// Setting the current status again is allowed so serial numbers can be edited.
func CanTransitionOrder(from, to string) bool {
	if !IsValidOrderStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	switch from {
	case models.OrderStatusDelivered, models.OrderStatusCancelled:
		return false
	case models.OrderStatusCancellationRequested:
		return to == models.OrderStatusCancelled || to == models.OrderStatusPending || to == models.OrderStatusConfirmed
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	if to == models.OrderStatusCancellationRequested {
		return from == models.OrderStatusPending || from == models.OrderStatusConfirmed
	}
	fi, ti := indexOf(orderFlow, from), indexOf(orderFlow, to)
	return fi >= 0 && ti > fi
}

// CanRequestCancellation reports whether the customer may still cancel
func CanRequestCancellation(status string) bool {
	return status == models.OrderStatusPending || status == models.OrderStatusConfirmed
}

// TrackerStep is one row of the order progress tracker
type TrackerStep struct {
	Status  string `json:"status"`
	Reached bool   `json:"reached"`
	Current bool   `json:"current"`
}

// OrderTracker renders the fulfilment steps for status
type OrderTracker struct {
	Steps     []TrackerStep `json:"steps"`
	Cancelled bool          `json:"cancelled"`
	Status    string        `json:"status"`
}

// BuildOrderTracker marks every step up to the order's position as reached.
// Cancellation states keep the last reachable step at Pending.
func BuildOrderTracker(status string) OrderTracker {
	pos := indexOf(orderFlow, status)
	cancelled := status == models.OrderStatusCancelled || status == models.OrderStatusCancellationRequested
	if pos < 0 {
		pos = 0
	}
	steps := make([]TrackerStep, len(orderFlow))
	for i, s := range orderFlow {
		steps[i] = TrackerStep{
			Status:  s,
			Reached: i <= pos,
			Current: i == pos && !cancelled,
		}
	}
	return OrderTracker{Steps: steps, Cancelled: cancelled, Status: status}
}

// returnFlows lists the forward sequence per request type after Pending
var returnFlows = map[string][]string{
	models.ReturnTypeReturn: {
		models.ReturnStatusPending,
		models.ReturnStatusApproved,
		models.ReturnStatusPickupScheduled,
		models.ReturnStatusReceivedAtWarehouse,
		models.ReturnStatusRefundInitiated,
		models.ReturnStatusCompleted,
	},
	models.ReturnTypeReplacement: {
		models.ReturnStatusPending,
		models.ReturnStatusApproved,
		models.ReturnStatusPickupScheduled,
		models.ReturnStatusReceivedAtWarehouse,
		models.ReturnStatusReplacementDispatched,
		models.ReturnStatusCompleted,
	},
	models.ReturnTypeCancellation: {
		models.ReturnStatusPending,
		models.ReturnStatusApproved,
		models.ReturnStatusRefundInitiated,
		models.ReturnStatusCompleted,
	},
}

// IsValidReturnType reports whether t is Return, Replacement or Cancellation
func IsValidReturnType(t string) bool {
	_, ok := returnFlows[t]
	return ok
}

// CanTransitionReturn reports whether a request of returnType may move from one status to another.
// Steps move forward along the type's flow and may be skipped; Rejected is only reachable
// before pickup; Completed and Rejected are final.
func CanTransitionReturn(returnType, from, to string) bool {
	flow, ok := returnFlows[returnType]
	if !ok {
		return false
	}
	if from == models.ReturnStatusCompleted || from == models.ReturnStatusRejected {
		return false
	}
	if to == models.ReturnStatusRejected {
		return from == models.ReturnStatusPending || from == models.ReturnStatusApproved
	}
	fi, ti := indexOf(flow, from), indexOf(flow, to)
	return fi >= 0 && ti > fi
}

// ItemStatusForReturn maps a return/replacement status onto the order item status
func ItemStatusForReturn(returnType, status string) string {
	switch status {
	case models.ReturnStatusRejected:
		return models.OrderStatusDelivered
	case models.ReturnStatusCompleted:
		if returnType == models.ReturnTypeReplacement {
			return models.ItemStatusReplaced
		}
		return models.ItemStatusReturned
	}
	return status
}

// RequestedItemStatus is the item status set when a return or replacement is raised
func RequestedItemStatus(returnType string) string {
	if returnType == models.ReturnTypeReplacement {
		return models.ItemStatusReplacementRequested
	}
	return models.ItemStatusReturnRequested
}
