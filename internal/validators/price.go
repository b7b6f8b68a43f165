package validators

import (
	"regexp"
	"strconv"
	"strings"
)

// Currency describes a supported price currency
type Currency struct {
	Code     string
	Decimals int
}

// SupportedCurrencies lists the accepted currency codes with their required
// number of decimal places
var SupportedCurrencies = map[string]Currency{
	"USD": {Code: "USD", Decimals: 2},
	"EUR": {Code: "EUR", Decimals: 2},
	"GBP": {Code: "GBP", Decimals: 2},
	"JPY": {Code: "JPY", Decimals: 0},
	"CAD": {Code: "CAD", Decimals: 2},
	"AUD": {Code: "AUD", Decimals: 2},
	"CNY": {Code: "CNY", Decimals: 2},
	"INR": {Code: "INR", Decimals: 2},
}

var defaultCurrency = SupportedCurrencies["USD"]

var (
	priceFormatRe  = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?\s[A-Z]{3}$`)
	priceAmountRe  = regexp.MustCompile(`[0-9][0-9.,]*`)
	currencyCodeRe = regexp.MustCompile(`[A-Za-z]{3}`)
)

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₹": "INR",
}

// validPrice checks format, supported currency and exact decimal places
func validPrice(value string) bool {
	if !priceFormatRe.MatchString(value) {
		return false
	}
	amount, code, _ := strings.Cut(value, " ")
	if code == "" {
		// separated by another whitespace rune
		fields := strings.Fields(value)
		amount, code = fields[0], fields[1]
	}
	currency, ok := SupportedCurrencies[code]
	if !ok {
		return false
	}
	decimals := 0
	if _, frac, found := strings.Cut(amount, "."); found {
		decimals = len(frac)
	}
	return decimals == currency.Decimals
}

// fixPrice extracts the amount and currency and formats them with the
// currency's required decimals. Unknown currencies fall back to USD.
func fixPrice(value string) string {
	raw := priceAmountRe.FindString(value)
	if raw == "" {
		return ""
	}
	amount, ok := parseAmount(raw)
	if !ok {
		return ""
	}

	currency := detectCurrency(value)
	return strconv.FormatFloat(amount, 'f', currency.Decimals, 64) + " " + currency.Code
}

func detectCurrency(value string) Currency {
	for _, candidate := range currencyCodeRe.FindAllString(value, -1) {
		if c, ok := SupportedCurrencies[strings.ToUpper(candidate)]; ok {
			return c
		}
	}
	for symbol, code := range currencySymbols {
		if strings.Contains(value, symbol) {
			return SupportedCurrencies[code]
		}
	}
	return defaultCurrency
}

// parseAmount parses "12.99", "12,99", "1.299,00" and "1,299.00".
// The separator that appears last is the decimal separator.
func parseAmount(s string) (float64, bool) {
	s = strings.Trim(s, ".,")
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if lastDot > lastComma {
		s = strings.ReplaceAll(s, ",", "")
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
