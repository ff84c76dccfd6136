// Package types provides type definitions for structured data exchanged at the jobfit boundary.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// Validate validates the ResumeData using the validator.
func (r *ResumeData) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the PersonalInfo using the validator.
func (p *PersonalInfo) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
