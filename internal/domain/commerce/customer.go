package commerce

import "time"

// Gender values as stored by the shop
const (
	GenderUnknown = "u"
	GenderMale    = "m"
	GenderFemale  = "f"
)

// Customer is a registered shop customer
type Customer struct {
	ID         uint64
	Email      string
	FirstName  string
	LastName   string
	Gender     string
	Subscribed bool
	CreatedAt  time.Time
}

// FullName joins first and last name, skipping empty parts.
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}
