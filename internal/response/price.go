package response

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceFormat renders amounts with the grouping and decimal rules of Locale
// and the standard number of fraction digits of Currency. An empty Symbol
// renders the bare number.
type PriceFormat struct {
	Locale      language.Tag
	Currency    currency.Unit
	Symbol      string
	SymbolAfter bool
}

// NewPriceFormat parses a BCP 47 locale and an ISO 4217 currency code.
func NewPriceFormat(locale, currencyCode, symbol string, symbolAfter bool) (PriceFormat, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return PriceFormat{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return PriceFormat{}, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}
	return PriceFormat{Locale: tag, Currency: unit, Symbol: symbol, SymbolAfter: symbolAfter}, nil
}

// DefaultPriceFormat is Swedish kronor, e.g. "1 499,00 kr" with non-breaking spaces.
func DefaultPriceFormat() PriceFormat {
	return PriceFormat{Locale: language.MustParse("sv-SE"), Currency: currency.SEK, Symbol: "kr", SymbolAfter: true}
}

func (p PriceFormat) Format(amount float64) string {
	digits, _ := currency.Standard.Rounding(p.Currency)
	printer := message.NewPrinter(p.Locale)
	formatted := printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))

	switch {
	case p.Symbol == "":
		return formatted
	case p.SymbolAfter:
		return formatted + "\u00a0" + p.Symbol
	default:
		return p.Symbol + formatted
	}
}
