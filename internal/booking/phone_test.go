package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"local leading zero", "0788123456", "788123456"},
		{"international prefix", "+250788123456", "250788123456"},
		{"spaces and dashes", "078-812 3456", "788123456"},
		{"already normalized", "788123456", "788123456"},
		{"single zero kept", "0", "0"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestFormatTime12h(t *testing.T) {
	assert.Equal(t, "9:00 AM", FormatTime12h("09:00"))
	assert.Equal(t, "12:00 PM", FormatTime12h("12:00"))
	assert.Equal(t, "12:00 AM", FormatTime12h("00:00"))
	assert.Equal(t, "11:00 PM", FormatTime12h("23:00"))
	assert.Equal(t, "garbage", FormatTime12h("garbage"))
	assert.Equal(t, "", FormatTime12h(""))
}
