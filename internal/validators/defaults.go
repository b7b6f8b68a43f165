package validators

import (
	"strings"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

const (
	maxIDLength          = 50
	minTitleLength       = 30
	maxTitleLength       = 150
	minDescriptionLength = 100
	maxDescriptionLength = 5000
	maxMPNLength         = 70
	minBrandLength       = 2
	capsCheckMinLength   = 5
)

var (
	availabilityValues = []string{"in stock", "out of stock", "preorder", "backorder"}
	conditionValues    = []string{"new", "used", "refurbished"}
)

// defaultEntries returns the built-in product feed rules
func defaultEntries() map[string]*Entry {
	return map[string]*Entry{
		"id":           idEntry(),
		"title":        titleEntry(),
		"description":  descriptionEntry(),
		"link":         linkEntry(false),
		"image_link":   linkEntry(true),
		"price":        priceEntry(),
		"availability": availabilityEntry(),
		"condition":    conditionEntry(),
		"gtin":         gtinEntry(),
		"mpn":          mpnEntry(),
		"brand":        brandEntry(),
	}
}

func idEntry() *Entry {
	return &Entry{Rule: Rule{
		Validate: func(v string) bool {
			return identifierRe.MatchString(v) && length(v) >= 1 && length(v) <= maxIDLength
		},
		Message:  "ID must be 1-50 characters of letters, numbers, underscores or hyphens",
		Severity: types.SeverityError,
		Fix: suggest(func(v string) string {
			return truncate(nonIdentRe.ReplaceAllString(v, ""), maxIDLength)
		}),
	}}
}

func titleEntry() *Entry {
	return &Entry{
		Rule: Rule{
			Validate: func(v string) bool {
				return !looksLikeURL(v) && !htmlTagRe.MatchString(v) && !specialCharsRe.MatchString(v)
			},
			Message:  "Title must not be a URL or contain HTML or the characters < > { } [ ] \\ /",
			Severity: types.SeverityError,
			Fix: suggest(func(v string) string {
				return stripSpecialChars(stripHTML(v))
			}),
		},
		Additional: []Rule{
			{
				Validate: func(v string) bool { return length(v) >= minTitleLength },
				Message:  "Title is shorter than 30 characters",
				Severity: types.SeverityWarning,
			},
			{
				Validate: func(v string) bool { return length(v) <= maxTitleLength },
				Message:  "Title is longer than 150 characters",
				Severity: types.SeverityWarning,
				Fix: suggest(func(v string) string {
					return truncate(v, maxTitleLength)
				}),
			},
			{
				Validate: func(v string) bool {
					return length(v) <= capsCheckMinLength || !hasLetter(v) || v != strings.ToUpper(v)
				},
				Message:  "Title should not be written in all capital letters",
				Severity: types.SeverityInfo,
				Fix:      suggest(sentenceCase),
			},
		},
	}
}

func descriptionEntry() *Entry {
	return &Entry{
		Rule: Rule{
			Validate: func(v string) bool {
				return !looksLikeURL(v) && !specialCharsRe.MatchString(v)
			},
			Message:  "Description must not be a URL or contain the characters < > { } [ ] \\ /",
			Severity: types.SeverityError,
			Fix:      suggest(stripSpecialChars),
		},
		Additional: []Rule{
			{
				Validate: func(v string) bool { return length(v) >= minDescriptionLength },
				Message:  "Description is shorter than 100 characters",
				Severity: types.SeverityWarning,
			},
			{
				Validate: func(v string) bool { return length(v) <= maxDescriptionLength },
				Message:  "Description is longer than 5000 characters",
				Severity: types.SeverityWarning,
				Fix: suggest(func(v string) string {
					return truncate(v, maxDescriptionLength)
				}),
			},
			{
				Validate: func(v string) bool { return !htmlTagRe.MatchString(v) },
				Message:  "Description contains HTML tags",
				Severity: types.SeverityInfo,
				Fix:      suggest(stripHTML),
			},
		},
	}
}

func linkEntry(image bool) *Entry {
	entry := &Entry{
		Rule: Rule{
			Validate: func(v string) bool {
				return strings.HasPrefix(v, "http") && strings.Contains(v, "://") && urlRe.MatchString(v)
			},
			Message:  "Link must be a complete URL starting with http:// or https://",
			Severity: types.SeverityError,
			Fix: suggest(func(v string) string {
				if strings.HasPrefix(v, "http") {
					return v
				}
				return "https://" + v
			}),
		},
		Additional: []Rule{
			{
				Validate: func(v string) bool { return strings.HasPrefix(v, "https://") },
				Message:  "Link should use HTTPS",
				Severity: types.SeverityWarning,
				Fix: suggest(func(v string) string {
					if strings.HasPrefix(v, "http://") {
						return "https://" + strings.TrimPrefix(v, "http://")
					}
					return v
				}),
			},
		},
	}
	if image {
		entry.Message = "Image link must be a complete URL starting with http:// or https://"
		entry.Additional[0].Message = "Image link should use HTTPS"
		entry.Additional = append(entry.Additional, Rule{
			Validate: imageExtRe.MatchString,
			Message:  "Image link does not end with a common image extension",
			Severity: types.SeverityInfo,
		})
	}
	return entry
}

func priceEntry() *Entry {
	return &Entry{Rule: Rule{
		Validate: validPrice,
		Message:  "Price must be a number followed by a supported currency code, e.g. 19.99 USD",
		Severity: types.SeverityError,
		Fix:      suggest(fixPrice),
	}}
}

func availabilityEntry() *Entry {
	return &Entry{Rule: Rule{
		Validate: oneOf(availabilityValues),
		Message:  "Availability must be one of: in stock, out of stock, preorder, backorder",
		Severity: types.SeverityError,
		Fix: suggest(func(v string) string {
			lower := strings.ToLower(v)
			switch {
			case strings.Contains(lower, "stock") && strings.Contains(lower, "out"):
				return "out of stock"
			case strings.Contains(lower, "stock"):
				return "in stock"
			case strings.Contains(lower, "pre") || strings.Contains(lower, "order"):
				return "preorder"
			case strings.Contains(lower, "back"):
				return "backorder"
			default:
				return "in stock"
			}
		}),
	}}
}

func conditionEntry() *Entry {
	return &Entry{Rule: Rule{
		Validate: oneOf(conditionValues),
		Message:  "Condition must be one of: new, used, refurbished",
		Severity: types.SeverityError,
		Fix: suggest(func(v string) string {
			lower := strings.ToLower(v)
			switch {
			case containsAny(lower, "new", "brand"):
				return "new"
			case containsAny(lower, "used", "second", "open"):
				return "used"
			case containsAny(lower, "refurb", "renew", "recondition"):
				return "refurbished"
			default:
				return "new"
			}
		}),
	}}
}

func gtinEntry() *Entry {
	return &Entry{
		Rule: Rule{
			Validate: validGTIN,
			Message:  "GTIN must be 8, 12, 13 or 14 digits",
			Severity: types.SeverityWarning,
			Fix:      suggest(fixGTIN),
		},
		Additional: []Rule{
			{
				Validate: validGTINCheckDigit,
				Message:  "GTIN check digit does not match",
				Severity: types.SeverityInfo,
			},
		},
	}
}

func mpnEntry() *Entry {
	return &Entry{Rule: Rule{
		Validate: func(v string) bool {
			return identifierRe.MatchString(v) && length(v) <= maxMPNLength
		},
		Message:  "MPN must be at most 70 letters, numbers, underscores or hyphens",
		Severity: types.SeverityWarning,
		Fix: suggest(func(v string) string {
			return truncate(nonIdentRe.ReplaceAllString(v, ""), maxMPNLength)
		}),
	}}
}

func brandEntry() *Entry {
	return &Entry{Rule: Rule{
		Validate: func(v string) bool {
			return length(v) >= minBrandLength && !specialCharsRe.MatchString(v)
		},
		Message:  "Brand must be at least 2 characters without < > { } [ ] \\ /",
		Severity: types.SeverityWarning,
		Fix:      suggest(stripSpecialChars),
	}}
}

func oneOf(allowed []string) func(string) bool {
	return func(v string) bool {
		lower := strings.ToLower(strings.TrimSpace(v))
		for _, a := range allowed {
			if lower == a {
				return true
			}
		}
		return false
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
