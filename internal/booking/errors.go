package booking

import "errors"

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrTicketNotFound          = errors.New("ticket not found")
	ErrInvalidQuantity         = errors.New("invalid ticket quantity")
	ErrCapacityExceeded        = errors.New("not enough available tickets for this event")
	ErrUnauthorizedPriceChange = errors.New("only the organizer can change the ticket price")
	ErrNotTicketOwner          = errors.New("only the ticket owner may perform this action")
)
