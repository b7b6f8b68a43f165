package reconcile

// FieldState is the engine's view of one displayed cell
type FieldState struct {
	Text      string `json:"text"`
	Compliant bool   `json:"compliant"`
	// Invalid is the visual "needs attention" flag
	Invalid bool `json:"invalid"`
}

// RowState tracks a single product row by its offer id
type RowState struct {
	OfferID  string                 `json:"offerId"`
	RowIndex int                    `json:"rowIndex"`
	Fields   map[string]*FieldState `json:"fields"`
	NeedsFix bool                   `json:"needsFix"`
	// Focused is set only by explicit navigation to the row
	Focused bool `json:"focused"`
}

func (r *RowState) clone() RowState {
	out := *r
	out.Fields = make(map[string]*FieldState, len(r.Fields))
	for name, fs := range r.Fields {
		copied := *fs
		out.Fields[name] = &copied
	}
	return out
}

// IssueDisplay renders the open issue list
type IssueDisplay interface {
	IssueRemoved(offerID, field string, remaining int)
	AllResolved()
}

// StatusSink surfaces non-fatal problems to the user
type StatusSink interface {
	Warn(msg string, fields map[string]any)
}

type noopDisplay struct{}

func (noopDisplay) IssueRemoved(string, string, int) {}
func (noopDisplay) AllResolved()                     {}

type noopStatus struct{}

func (noopStatus) Warn(string, map[string]any) {}
