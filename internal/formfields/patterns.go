package formfields

// FieldType is the personal-info slot an input field asks for
type FieldType string

// Field types in detection priority order.
const (
	FieldFirstName        FieldType = "first_name"
	FieldLastName         FieldType = "last_name"
	FieldFullName         FieldType = "full_name"
	FieldEmail            FieldType = "email"
	FieldExtension        FieldType = "extension"
	FieldCountryPhoneCode FieldType = "country_phone_code"
	FieldPhone            FieldType = "phone"
	FieldLinkedIn         FieldType = "linkedin"
	FieldCity             FieldType = "city"
	FieldPostalCode       FieldType = "postal_code"
	FieldCountry          FieldType = "country"
	FieldLocation         FieldType = "location"
	FieldCurrentCompany   FieldType = "current_company"
)

// fieldPatterns are checked in order; more specific types come before broader ones
// (extension and country code before phone, address parts before location).
var fieldPatterns = []struct {
	fieldType FieldType
	patterns  []string
}{
	{FieldFirstName, []string{"firstname", "first_name", "fname", "givenname", "legalname--firstname"}},
	{FieldLastName, []string{"lastname", "last_name", "lname", "surname", "familyname", "legalname--lastname"}},
	{FieldFullName, []string{"full name", "fullname", "full_name", "applicantname", "candidatename", "legal name", "legalname", "your name"}},
	{FieldEmail, []string{"email", "e-mail", "emailaddress", "mail"}},
	{FieldExtension, []string{"extension", "ext", "phone extension", "ext number"}},
	{FieldCountryPhoneCode, []string{"country code", "country phone code", "phone country", "intl code", "countryphonecode"}},
	{FieldPhone, []string{"phone", "telephone", "mobile", "cell", "phonenumber", "contact"}},
	{FieldLinkedIn, []string{"linkedin", "linkedinurl", "linkedin_url", "linkedinprofile"}},
	{FieldCity, []string{"city", "town"}},
	{FieldPostalCode, []string{"postal", "zip", "zipcode", "postcode", "postalcode"}},
	{FieldCountry, []string{"country", "nation", "countryregion", "province", "territory", "region", "state", "provinceorterritory"}},
	{FieldLocation, []string{"addressline1", "addressline2", "address1", "address2", "address", "street", "location", "residence", "currentlocation"}},
	{FieldCurrentCompany, []string{"company", "employer", "organization", "currentcompany", "current_company"}},
}

// shortPatternLen is the length below which a pattern must match a whole token,
// so "ext" does not fire on "text".
const shortPatternLen = 4

// fieldAttributes make up the haystack a field type is detected from.
var fieldAttributes = []string{"name", "id", "aria-label", "placeholder", "data-automation-id", "data-qa", "class"}

// Selectors for the two kinds of fields a page exposes.
const (
	personalFieldSelector = `input[type="text"], input[type="email"], input[type="tel"], input[type="url"], input:not([type]), textarea`
	questionFieldSelector = `textarea, input[type="text"], [contenteditable="true"], div[role="textbox"]`
)

const (
	maxQuestionLen = 500
	minQuestionLen = 6
)
