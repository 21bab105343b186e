// Package entity contains the core business objects of the project.
package entity

// Address is a postal address value owned by a User. It has no identity of its own.
type Address struct {
	Street     string `json:"street"`     // Street name.
	Number     string `json:"number"`     // Building number.
	Complement string `json:"complement"` // Apartment, suite, etc.
	District   string `json:"district"`   // Neighbourhood (bairro).
	City       string `json:"city"`       // City name.
	State      string `json:"state"`      // State code, e.g. "SP".
	ZipCode    string `json:"zipCode"`    // Postal code (CEP).
}

// Clone returns a copy of the address so callers cannot mutate shared state.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}
