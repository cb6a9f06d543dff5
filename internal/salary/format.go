package salary

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
}

// FormatAmount renders an amount with its currency symbol and thousands
// separators, e.g. "£111,500". Unknown currencies are prefixed by their code.
func FormatAmount(amount float64, currency string) string {
	whole := humanize.Comma(int64(math.Round(amount)))
	code := strings.ToUpper(strings.TrimSpace(currency))
	if symbol, ok := currencySymbols[code]; ok {
		return symbol + whole
	}
	if code == "" {
		return whole
	}
	return fmt.Sprintf("%s %s", code, whole)
}
