package domain

import "strings"

// Currency is an ISO 4217 code supported by the exchange gateway.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

var currencyNames = map[Currency]string{
	EUR: "Euro",
	USD: "US Dollar",
	GBP: "British Pound",
}

// Supported reports whether c is one of the known currencies.
func (c Currency) Supported() bool {
	_, ok := currencyNames[c]
	return ok
}

// DisplayName returns the human readable name, or the code when unknown.
func (c Currency) DisplayName() string {
	if name, ok := currencyNames[c]; ok {
		return name
	}
	return string(c)
}

// ParseCurrency normalizes code and checks it against the supported set.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Supported() {
		return "", Errorf(ErrInvalidInput, "unsupported currency %q", code)
	}
	return c, nil
}
