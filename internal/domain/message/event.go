package message

import "github.com/WellArtDev/absenin-project-sub000/internal/pkg/geo"

// InboundEvent is one raw delivery from the messaging provider webhook.
// Deliveries may repeat; downstream processing is idempotent per
// (employee, date).
type InboundEvent struct {
	SenderPhone string
	Text        string
	DeviceLine  string // tenant's inbound line identifier, may be empty
	Location    *geo.Point
	Image       string // url or base64 payload, may be empty
}
