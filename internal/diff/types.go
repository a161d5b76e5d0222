package diff

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type IssueType string

const (
	TypeLayout IssueType = "layout"
	TypeColor  IssueType = "color"
)

// Region is a rectangle in pixel coordinates of the compared image.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Issue is one localized visual discrepancy. Issues are derived per
// comparison, never stored; IDs are deterministic rank-order labels so
// repeated runs over the same inputs produce identical output.
type Issue struct {
	ID       string    `json:"id"`
	Type     IssueType `json:"type"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Region   Region    `json:"region"`
}
