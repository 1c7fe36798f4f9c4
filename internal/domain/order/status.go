package order

// Status is one step of the order lifecycle, carrying display metadata for
// the admin interface.
type Status struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	NameDisplay string `bson:"name_display" json:"name_display"`
	Color       string `bson:"color" json:"color"`
}

// The fixed status set. Orders start in awaiting confirmation; completed and
// cancelled are terminal. Between non-terminal statuses any administrative
// jump is allowed; there is deliberately no enforced ordering.
var (
	StatusAwaitingConfirmation = Status{ID: "awaiting_confirmation", Name: "Awaiting confirmation", NameDisplay: "Awaiting confirmation", Color: "orange"}
	StatusAwaitingCooking      = Status{ID: "awaiting_cooking", Name: "Being cooked", NameDisplay: "Being cooked", Color: "blue"}
	StatusAwaitingPayment      = Status{ID: "awaiting_payment", Name: "Awaiting payment", NameDisplay: "Awaiting payment", Color: "black"}
	StatusAwaitingShipment     = Status{ID: "awaiting_shipment", Name: "Awaiting shipment", NameDisplay: "Awaiting shipment", Color: "black"}
	StatusInProgress           = Status{ID: "in_progress", Name: "In progress", NameDisplay: "In progress", Color: "black"}
	StatusCompleted            = Status{ID: "completed", Name: "Completed", NameDisplay: "Completed", Color: "green"}
	StatusCancelled            = Status{ID: "cancelled", Name: "Cancelled", NameDisplay: "Cancelled", Color: "red"}
)

var statuses = map[string]Status{
	StatusAwaitingConfirmation.ID: StatusAwaitingConfirmation,
	StatusAwaitingCooking.ID:      StatusAwaitingCooking,
	StatusAwaitingPayment.ID:      StatusAwaitingPayment,
	StatusAwaitingShipment.ID:     StatusAwaitingShipment,
	StatusInProgress.ID:           StatusInProgress,
	StatusCompleted.ID:            StatusCompleted,
	StatusCancelled.ID:            StatusCancelled,
}

// StatusByID resolves a status by its id.
func StatusByID(id string) (Status, bool) {
	s, ok := statuses[id]
	return s, ok
}

// Terminal reports whether the status permits no further customer-facing
// edits.
func (s Status) Terminal() bool {
	return s.ID == StatusCompleted.ID || s.ID == StatusCancelled.ID
}
