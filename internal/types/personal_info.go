// Package types provides type definitions for structured data exchanged at the jobfit boundary.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PersonalInfo holds the profile values used to autofill application forms
type PersonalInfo struct {
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	FullName         string `json:"full_name,omitempty"`
	Email            string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string `json:"phone,omitempty"`
	Extension        string `json:"extension,omitempty"`
	CountryPhoneCode string `json:"country_phone_code,omitempty"`
	LinkedIn         string `json:"linkedin,omitempty" validate:"omitempty,url"`
	City             string `json:"city,omitempty"`
	PostalCode       string `json:"postal_code,omitempty"`
	Country          string `json:"country,omitempty"`
	Location         string `json:"location,omitempty"`
	CurrentCompany   string `json:"current_company,omitempty"`
}
