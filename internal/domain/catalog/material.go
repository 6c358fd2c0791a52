// Package catalog is the read-only view of the materials/suppliers directory.
// The directory itself is owned by an external collaborator; this subsystem
// only resolves keys and display data from it.
package catalog

type Material struct {
	Key      string
	Name     string
	Unit     string
	Category string
}

// Contact is the notification identity of a platform user (a builder).
// Supplier contact data lives on supplier.Supplier.
type Contact struct {
	Name  string
	Email string
	Phone string
}
