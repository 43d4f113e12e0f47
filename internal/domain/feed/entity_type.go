package feed

import "fmt"

// EntityType is the feed section a record belongs to
type EntityType string

const (
	EntityOrders    EntityType = "orders"
	EntityProducts  EntityType = "products"
	EntityCustomers EntityType = "customers"
)

// AllEntityTypes lists every entity type in payload order.
func AllEntityTypes() []EntityType {
	return []EntityType{EntityOrders, EntityProducts, EntityCustomers}
}

// IsValid returns true if t is a known entity type
func (t EntityType) IsValid() bool {
	switch t {
	case EntityOrders, EntityProducts, EntityCustomers:
		return true
	}
	return false
}

// String returns the payload key for the entity type
func (t EntityType) String() string {
	return string(t)
}

// ParseEntityType converts a payload key into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, s)
	}
	return t, nil
}

// ParseEntityTypes parses a configured list, rejecting unknown names and duplicates.
// An empty list selects every entity type.
func ParseEntityTypes(names []string) ([]EntityType, error) {
	if len(names) == 0 {
		return AllEntityTypes(), nil
	}
	seen := make(map[EntityType]bool, len(names))
	types := make([]EntityType, 0, len(names))
	for _, n := range names {
		t, err := ParseEntityType(n)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			return nil, fmt.Errorf("duplicate entity type %q", n)
		}
		seen[t] = true
		types = append(types, t)
	}
	return types, nil
}
