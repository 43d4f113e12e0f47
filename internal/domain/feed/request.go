package feed

import "time"

// Request is one inbound feed call.
type Request struct {
	ChannelID   uint64
	EntityTypes []EntityType
	Salt        string
	Signature   string
	ArrivedAt   time.Time
}
