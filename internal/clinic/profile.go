package clinic

import (
	"fmt"
	"strings"
)

// Location is the structured address of a clinic.
type Location struct {
	StateOrProvince string `json:"stateOrProvince"`
	CityOrDistrict  string `json:"cityOrDistrict"`
	Street          string `json:"street"`
	PostalCode      string `json:"postalCode"`
	ID              string `json:"_id,omitempty"`
}

// Review is a single patient review.
type Review struct {
	ReviewNo    int     `json:"reviewNo"`
	Rating      float64 `json:"rating"`
	Comment     string  `json:"comment"`
	PatientName string  `json:"patientName"`
}

// Test is a bookable clinic service offering.
type Test struct {
	TestNo              int     `json:"testNo"`
	TestName            string  `json:"testName"`
	Price               float64 `json:"price"`
	CurrencySymbol      string  `json:"currencySymbol"`
	TurnaroundTime      string  `json:"turnaroundTime"`
	PreTestRequirements string  `json:"preTestRequirements"`
	HomeCollection      string  `json:"homeCollection"`
	InsuranceCoverage   string  `json:"insuranceCoverage"`
	Description         string  `json:"description"`
	TestImage           string  `json:"testImage"`
	ClinicImage         string  `json:"clinicImage"`
	ClinicName          string  `json:"clinicName"`
}

// DiscountCode is a time-bounded percentage promotion.
type DiscountCode struct {
	Code        string  `json:"code"`
	Percentage  float64 `json:"percentage"`
	ValidUntil  string  `json:"validUntil"`
	Description string  `json:"description,omitempty"`
}

// Profile is the public clinic profile as served by the upstream API.
// Replaced wholesale on each fetch; never mutated in place.
type Profile struct {
	ClinicID         int            `json:"clinicId"`
	ClinicName       string         `json:"clinicName"`
	Username         string         `json:"username"`
	Bio              string         `json:"bio"`
	Avatar           string         `json:"avatar"`
	Location         *Location      `json:"location,omitempty"`
	Address          string         `json:"address,omitempty"`
	Languages        []string       `json:"languages"`
	DeliveryMethods  []string       `json:"deliveryMethods"`
	OnlineStatus     string         `json:"onlineStatus"`
	Country          string         `json:"country"`
	SupportInsurance []int          `json:"supportInsurance"`
	IsVerified       bool           `json:"isVerified"`
	Reviews          []Review       `json:"reviews"`
	Tests            []Test         `json:"tests"`
	DiscountCodes    []DiscountCode `json:"discountCodes,omitempty"`
}

// FormatAddress derives the single-line display address from location fields.
func FormatAddress(loc *Location) string {
	if loc == nil {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s", loc.Street, loc.CityOrDistrict, loc.StateOrProvince, loc.PostalCode)
}

// TestByNo finds a bookable test by its number.
func (p *Profile) TestByNo(testNo int) (Test, bool) {
	for _, t := range p.Tests {
		if t.TestNo == testNo {
			return t, true
		}
	}
	return Test{}, false
}

const bioPreviewLimit = 150

// BioSummary returns the bio preview and whether it was truncated.
func (p *Profile) BioSummary() (string, bool) {
	if len(p.Bio) <= bioPreviewLimit {
		return p.Bio, false
	}
	return p.Bio[:bioPreviewLimit] + "...", true
}

// Capitalize title-cases each word, matching how the profile page displays
// test names and languages.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
