package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "£111,500", FormatAmount(111500, "GBP"))
	assert.Equal(t, "$1,234,567", FormatAmount(1234567, "usd"))
	assert.Equal(t, "€980", FormatAmount(979.6, "EUR"))
	assert.Equal(t, "CHF 90,000", FormatAmount(90000, "CHF"))
	assert.Equal(t, "28,000", FormatAmount(28000, ""))
}
