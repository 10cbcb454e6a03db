package conversation

// Step tags the position of a chat inside the order intake flow.
type Step int

const (
	StepProduct Step = iota
	StepQuantity
	StepComment
)

// Session is the transient per-chat payload collected across the three
// intake steps. It exists only between "start new order" and commit (or
// whenever the chat abandons the flow).
type Session struct {
	Step     Step
	Product  string
	Quantity int
}
