package clinic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAddress(t *testing.T) {
	loc := &Location{
		Street:          "KG 11 Ave",
		CityOrDistrict:  "Gasabo",
		StateOrProvince: "Kigali",
		PostalCode:      "00000",
	}

	assert.Equal(t, "KG 11 Ave, Gasabo, Kigali 00000", FormatAddress(loc))
	assert.Equal(t, "", FormatAddress(nil))
}

func TestTestByNo(t *testing.T) {
	p := &Profile{Tests: []Test{
		{TestNo: 7, TestName: "full blood count", Price: 15000},
		{TestNo: 9, TestName: "malaria test", Price: 5000},
	}}

	got, ok := p.TestByNo(7)
	require.True(t, ok)
	assert.Equal(t, "full blood count", got.TestName)

	_, ok = p.TestByNo(42)
	assert.False(t, ok)
}

func TestBioSummary(t *testing.T) {
	short := &Profile{Bio: "A small neighborhood clinic."}
	text, truncated := short.BioSummary()
	assert.Equal(t, short.Bio, text)
	assert.False(t, truncated)

	long := &Profile{Bio: strings.Repeat("a", 200)}
	text, truncated = long.BioSummary()
	assert.True(t, truncated)
	assert.Len(t, text, 153) // 150 chars + ellipsis
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"full blood count", "Full Blood Count"},
		{"MALARIA test", "Malaria Test"},
		{"", ""},
		{"kinyarwanda", "Kinyarwanda"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.in))
	}
}

func TestDeliveryMethodString(t *testing.T) {
	assert.Equal(t, "Home Service", HomeService.String())
	assert.Equal(t, "In-Person", InPerson.String())
	assert.Equal(t, "Online Session", OnlineSession.String())
	assert.Equal(t, "Unknown", DeliveryMethod(99).String())
}

func TestParseDeliveryMethod(t *testing.T) {
	m, ok := ParseDeliveryMethod("In-Person")
	require.True(t, ok)
	assert.Equal(t, InPerson, m)

	_, ok = ParseDeliveryMethod("Courier")
	assert.False(t, ok)
}

func TestDeliveryMethodNames(t *testing.T) {
	names := DeliveryMethodNames([]string{"0", "1", "2", "teleport"})
	assert.Equal(t, []string{"Home Service", "In-Person", "Online Session", "teleport"}, names)
}

func TestInsuranceNames(t *testing.T) {
	names := InsuranceNames([]int{1, 3, 999})
	assert.Equal(t, []string{"RSSB", "RAMA"}, names)
}
