package entities

import "fmt"

// FormatCents renders an amount of cents as a dollar string, e.g. 1250 -> "$12.50".
// Whole-dollar amounts drop the decimals.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	if cents%100 == 0 {
		return fmt.Sprintf("%s$%d", sign, cents/100)
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
