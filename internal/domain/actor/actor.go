// Package actor identifies who is calling the workflow. Authentication itself
// is owned by an external collaborator; this subsystem only consumes the
// decoded identity.
package actor

type Role string

const (
	// RoleBuilder requests quotations and accepts quotes.
	RoleBuilder Role = "builder"
	// RoleSupplier receives RFQs and submits quotes.
	RoleSupplier Role = "supplier"
	// RoleAdmin can read everything, including delivery logs.
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleBuilder, RoleSupplier, RoleAdmin:
		return true
	default:
		return false
	}
}
