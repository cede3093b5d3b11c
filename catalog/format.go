package catalog

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const nairaSign = "₦"

// FormatPrice renders an amount as whole naira with thousands grouping,
// e.g. 75000000 -> "₦75,000,000".
func FormatPrice(amount float64) string {
	p := message.NewPrinter(language.English)
	return nairaSign + p.Sprintf("%d", int64(math.Round(amount)))
}
