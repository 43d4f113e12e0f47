package feed

import (
	"fmt"

	"github.com/erp/clerkfeed/internal/domain/shared"
)

// Feed errors. Messages are safe to return to the caller as-is.
var (
	ErrAccessDenied      = shared.NewDomainError("FORBIDDEN", "Access denied")
	ErrChannelNotFound   = shared.NewDomainError("NOT_FOUND", "Channel not found")
	ErrUnknownEntityType = shared.NewDomainError("NOT_FOUND", "Unknown entity type")
	ErrOrderNotFound     = shared.NewDomainError("NOT_FOUND", "Order not found")
)

// SourceChannels tags data source failures of the channel lookup. It is not a feed section.
const SourceChannels EntityType = "channels"

// DataSourceError reports a failure while retrieving or normalizing source records.
// The feed is aborted; no partial payload is produced.
type DataSourceError struct {
	EntityType EntityType
	Err        error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("feed data source %s: %v", e.EntityType, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports invalid feed setup detected while wiring the service.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("feed configuration: %s: %s", e.Field, e.Reason)
}
