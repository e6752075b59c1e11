package failure

type Severity int

// caller control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is the error contract shared by every component.
// Callers branch on Severity, never on error strings.
type ClassifiedError interface {
	error
	Severity() Severity
}
