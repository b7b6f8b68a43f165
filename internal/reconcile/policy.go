package reconcile

import "unicode/utf8"

// Window is an inclusive length range
type Window struct {
	Min int `mapstructure:"min" json:"min"`
	Max int `mapstructure:"max" json:"max"`
}

// Contains reports whether n lies inside the window
func (w Window) Contains(n int) bool {
	return n >= w.Min && n <= w.Max
}

// LengthPolicy holds the length windows of the client-editable fields
type LengthPolicy struct {
	fields  []string
	windows map[string]Window
}

// DefaultLengthPolicy returns title [30,150] and description [90,5000]
func DefaultLengthPolicy() LengthPolicy {
	return NewLengthPolicy(Window{Min: 30, Max: 150}, Window{Min: 90, Max: 5000})
}

// NewLengthPolicy builds a policy for the title and description fields
func NewLengthPolicy(title, description Window) LengthPolicy {
	return LengthPolicy{
		fields: []string{"title", "description"},
		windows: map[string]Window{
			"title":       title,
			"description": description,
		},
	}
}

// Fields returns the editable fields in display order
func (p LengthPolicy) Fields() []string {
	return p.fields
}

// Window returns the window for field
func (p LengthPolicy) Window(field string) (Window, bool) {
	w, ok := p.windows[field]
	return w, ok
}

// Compliant checks text against the field's window. Fields without a window
// are not editable and always compliant.
func (p LengthPolicy) Compliant(field, text string) (compliant bool, editable bool) {
	w, ok := p.windows[field]
	if !ok {
		return true, false
	}
	return w.Contains(utf8.RuneCountInString(text)), true
}

// tooShort is only meaningful for non-compliant text
func (p LengthPolicy) tooShort(field, text string) bool {
	return utf8.RuneCountInString(text) < p.windows[field].Min
}
