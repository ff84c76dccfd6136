package formfields

import (
	"strings"

	"github.com/jonathan/jobfit/internal/types"
)

// Fill pairs a field with the profile value it should receive.
type Fill struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// ValueFor returns the profile value for a field type. First and last name fall
// back to splitting the full name on its first space.
func ValueFor(info *types.PersonalInfo, t FieldType) string {
	if info == nil {
		return ""
	}
	switch t {
	case FieldFirstName:
		if info.FirstName != "" {
			return info.FirstName
		}
		first, _, _ := strings.Cut(strings.TrimSpace(info.FullName), " ")
		return first
	case FieldLastName:
		if info.LastName != "" {
			return info.LastName
		}
		_, rest, _ := strings.Cut(strings.TrimSpace(info.FullName), " ")
		return strings.TrimSpace(rest)
	case FieldFullName:
		return info.FullName
	case FieldEmail:
		return info.Email
	case FieldExtension:
		return info.Extension
	case FieldCountryPhoneCode:
		return info.CountryPhoneCode
	case FieldPhone:
		return info.Phone
	case FieldLinkedIn:
		return info.LinkedIn
	case FieldCity:
		return info.City
	case FieldPostalCode:
		return info.PostalCode
	case FieldCountry:
		return info.Country
	case FieldLocation:
		return info.Location
	case FieldCurrentCompany:
		return info.CurrentCompany
	default:
		return ""
	}
}

// Plan decides which profile value goes into each field. Filled fields, fields of
// unknown type and fields with no profile value are skipped.
func Plan(fields []Field, info *types.PersonalInfo) []Fill {
	fills := []Fill{}
	for _, f := range fields {
		if f.Filled || f.Type == "" {
			continue
		}
		if v := strings.TrimSpace(ValueFor(info, f.Type)); v != "" {
			fills = append(fills, Fill{Field: f, Value: v})
		}
	}
	return fills
}
