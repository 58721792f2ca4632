// internal/domain/currency/currency.go
package currency

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Code is an ISO 4217 code accepted by the store.
type Code string

const (
	ZAR Code = "ZAR"
	USD Code = "USD"

	Default = ZAR
)

var ErrUnsupported = errors.New("unsupported currency")

var printer = message.NewPrinter(language.English)

// Parse accepts a currency code in any case.
func Parse(s string) (Code, error) {
	switch Code(strings.ToUpper(strings.TrimSpace(s))) {
	case ZAR:
		return ZAR, nil
	case USD:
		return USD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// Valid reports whether c is a supported currency.
func (c Code) Valid() bool {
	return c == ZAR || c == USD
}

// Symbol returns the display symbol, R for rand and $ for dollars.
func (c Code) Symbol() string {
	if c == USD {
		return "$"
	}
	return "R"
}

// Select picks the amount that applies to c. Unknown codes fall back to rand.
func (c Code) Select(zar, usd int64) int64 {
	if c == USD {
		return usd
	}
	return zar
}

// Format renders a whole-unit amount with grouping, e.g. R6,000 or $325.
func (c Code) Format(amount int64) string {
	return c.Symbol() + printer.Sprintf("%d", amount)
}

// FormatPrice selects and formats in one step.
func (c Code) FormatPrice(zar, usd int64) string {
	return c.Format(c.Select(zar, usd))
}
