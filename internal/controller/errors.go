package controller

// Op identifies a controller operation for error reporting.
type Op int

const (
	OpLoad Op = iota
	OpAdd
	OpToggle
	OpDelete
	OpClear
)

var opNames = [...]string{"load", "add", "toggle", "delete", "clear"}

var opMessages = [...]string{
	"Failed loading todos!",
	"Couldn't add new todo.",
	"Couldn't update todo.",
	"Couldn't delete todo.",
	"Couldn't clear completed todos.",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Message returns the user-facing message for a failure of o.
func (o Op) Message() string {
	if o < 0 || int(o) >= len(opMessages) {
		return "Something went wrong."
	}
	return opMessages[o]
}

// OpError is returned when a backend operation fails.
// Error returns the user-facing message; Err holds the cause.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string { return e.Op.Message() }

func (e *OpError) Unwrap() error { return e.Err }
