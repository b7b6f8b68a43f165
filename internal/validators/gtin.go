package validators

// validGTINLengths are the GTIN-8, GTIN-12 (UPC), GTIN-13 (EAN) and GTIN-14 lengths
var validGTINLengths = map[int]bool{8: true, 12: true, 13: true, 14: true}

func validGTIN(value string) bool {
	return validGTINLengths[len(value)] && !nonDigitRe.MatchString(value)
}

func fixGTIN(value string) string {
	digits := nonDigitRe.ReplaceAllString(value, "")
	if !validGTINLengths[len(digits)] {
		return ""
	}
	return digits
}

// validGTINCheckDigit verifies the GS1 mod-10 check digit. Values that are
// not well-formed GTINs pass here; the primary rule reports them.
func validGTINCheckDigit(value string) bool {
	if !validGTIN(value) {
		return true
	}
	sum := 0
	// weights alternate 3,1 from the digit left of the check digit
	for i := len(value) - 2; i >= 0; i-- {
		d := int(value[i] - '0')
		if (len(value)-2-i)%2 == 0 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	check := (10 - sum%10) % 10
	return int(value[len(value)-1]-'0') == check
}
