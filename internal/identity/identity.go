// Package identity describes the caller as reported by the external identity
// provider. The provider owns these records; the service only reads them.
package identity

import "strings"

type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type Identity struct {
	ExternalID            string
	PrimaryEmailAddressID string
	EmailAddresses        []EmailAddress
	FirstName             string
	LastName              string
}

// PrimaryEmail returns the address whose id matches the primary pointer.
func (i Identity) PrimaryEmail() (string, bool) {
	for _, addr := range i.EmailAddresses {
		if addr.ID == i.PrimaryEmailAddressID && addr.ID != "" {
			return addr.EmailAddress, true
		}
	}
	return "", false
}

// DisplayName joins the non-empty name parts with a space, nil when both are empty.
func (i Identity) DisplayName() *string {
	parts := make([]string, 0, 2)
	for _, part := range []string{i.FirstName, i.LastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	name := strings.Join(parts, " ")
	return &name
}
