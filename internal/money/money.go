// Package money formats Vietnamese đồng amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// FormatVND renders an integer amount with Vietnamese digit grouping,
// e.g. 1500000 -> "1.500.000 ₫".
func FormatVND(amount int64) string {
	return printer.Sprintf("%d ₫", amount)
}
