package models

// adminNext is the full transition graph available to admins.
// declined is terminal; cancelled can be re-activated back to an
// active status ("uncancel"), which is a modeled transition.
var adminNext = map[string]map[string]bool{
	OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true, OrderStatusDeclined: true},
	OrderStatusProcessing: {OrderStatusCompleted: true, OrderStatusCancelled: true, OrderStatusDeclined: true},
	OrderStatusCompleted:  {OrderStatusCancelled: true, OrderStatusDeclined: true},
	OrderStatusCancelled:  {OrderStatusPending: true, OrderStatusProcessing: true},
	OrderStatusDeclined:   {},
}

func CanTransition(from, to string) bool {
	return adminNext[from][to]
}

// CustomerCanCancel reports whether the owner of an order may cancel
// it. Customers only get the pending→cancelled edge; anything further
// along needs an admin.
func CustomerCanCancel(status string) bool {
	return status == OrderStatusPending
}

// RestoresInventory reports whether moving from→to puts the order's
// items back into stock: entering cancelled or declined from a state
// that is neither.
func RestoresInventory(from, to string) bool {
	if to != OrderStatusCancelled && to != OrderStatusDeclined {
		return false
	}
	return from != OrderStatusCancelled && from != OrderStatusDeclined
}

// RedeductsInventory reports whether moving from→to takes the order's
// items back out of stock: leaving cancelled for an active status.
func RedeductsInventory(from, to string) bool {
	if from != OrderStatusCancelled {
		return false
	}
	return to == OrderStatusPending || to == OrderStatusProcessing
}
