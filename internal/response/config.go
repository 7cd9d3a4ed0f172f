package response

import "catalog-assistant/internal/common/config"

// NewFormatterFromConfig builds the formatter from the chat section.
func NewFormatterFromConfig(cfg config.ChatConfig) (*Formatter, error) {
	prices, err := NewPriceFormat(cfg.Locale, cfg.Currency, cfg.CurrencySymbol, cfg.SymbolAfter)
	if err != nil {
		return nil, err
	}
	return NewFormatter(prices, cfg.ListLimit), nil
}
