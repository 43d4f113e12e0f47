package feed

import "context"

// PredicateKind identifies a filter the data source must apply
type PredicateKind string

const (
	// PredicateChannelEquals restricts rows to the channel (orders by channel column,
	// products by channel assignment).
	PredicateChannelEquals PredicateKind = "channel_equals"
	// PredicateCheckoutCompleted keeps orders whose checkout completion time is set.
	PredicateCheckoutCompleted PredicateKind = "checkout_completed"
	// PredicateEnabled keeps enabled catalog entries.
	PredicateEnabled PredicateKind = "enabled"
	// PredicateHasCompletedOrderInChannel keeps customers with a completed order in the channel.
	PredicateHasCompletedOrderInChannel PredicateKind = "has_completed_order_in_channel"
)

// Predicate is a typed filter. ChannelID is set for channel-bound predicates.
type Predicate struct {
	Kind      PredicateKind
	ChannelID uint64
}

// OrderByIDAsc is the only ordering the feed uses; keyset pagination depends on it.
const OrderByIDAsc = "id ASC"

// QuerySpec is a backend-agnostic description of one page of one entity type.
type QuerySpec struct {
	EntityType EntityType
	ChannelID  uint64
	Predicates []Predicate
	OrderBy    string
	Limit      int
	After      Cursor
}

// Has reports whether the spec carries a predicate of the given kind.
func (q QuerySpec) Has(kind PredicateKind) bool {
	for _, p := range q.Predicates {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// Page is one batch of source entities. Next is the cursor after the last item.
type Page[T any] struct {
	Items []T
	Next  Cursor
}

// PageFetcher retrieves one page of source entities matching a QuerySpec.
// Implementations must apply every predicate and the ordering, return at most
// Limit items, and honor ctx cancellation.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, spec QuerySpec) (Page[T], error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, spec QuerySpec) (Page[T], error)

// FetchPage calls f(ctx, spec).
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, spec QuerySpec) (Page[T], error) {
	return f(ctx, spec)
}
