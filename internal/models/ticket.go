package models

// TicketInfo is the tracker-side data for a ticket reference.
type TicketInfo struct {
	Key         TicketRef
	Title       string
	Description string
}
