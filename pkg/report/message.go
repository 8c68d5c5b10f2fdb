// Package report collects the typed diagnostics of a document check and
// writes them as text or JSON.
package report

import "fmt"

// Severity levels for check messages.
type Severity string

const (
	Fatal   Severity = "FATAL"
	Error   Severity = "ERROR"
	Warning Severity = "WARNING"
	Info    Severity = "INFO"
)

// CheckParseError is the check ID of a document that failed to parse.
const CheckParseError = "PARSE_ERROR"

// CheckUnsupportedFormat is the check ID of an input the checker cannot read.
const CheckUnsupportedFormat = "UNSUPPORTED_FORMAT"

// CheckReadError is the check ID of an input file that could not be read.
const CheckReadError = "READ_ERROR"

// Message represents a single finding. Line is 0 when the finding is not
// tied to a line.
type Message struct {
	Severity Severity `json:"severity"`
	CheckID  string   `json:"check_id"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
}

func (m Message) String() string {
	if m.Line > 0 {
		return fmt.Sprintf("%s(%s): %s [line %d]", m.Severity, m.CheckID, m.Message, m.Line)
	}
	return fmt.Sprintf("%s(%s): %s", m.Severity, m.CheckID, m.Message)
}

// Report collects all messages for one document.
type Report struct {
	Filename string    `json:"filename"`
	Messages []Message `json:"messages"`
}

// NewReport creates an empty report for filename.
func NewReport(filename string) *Report {
	return &Report{Filename: filename, Messages: []Message{}}
}

// Add appends a message to the report.
func (r *Report) Add(sev Severity, checkID string, msg string) {
	r.AddAtLine(sev, checkID, msg, 0)
}

// AddAtLine appends a message tied to a line.
func (r *Report) AddAtLine(sev Severity, checkID string, msg string, line int) {
	r.Messages = append(r.Messages, Message{
		Severity: sev,
		CheckID:  checkID,
		Message:  msg,
		Line:     line,
	})
}

func (r *Report) count(sev Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// FatalCount returns the number of FATAL messages.
func (r *Report) FatalCount() int { return r.count(Fatal) }

// ErrorCount returns the number of ERROR messages.
func (r *Report) ErrorCount() int { return r.count(Error) }

// WarningCount returns the number of WARNING messages.
func (r *Report) WarningCount() int { return r.count(Warning) }

// InfoCount returns the number of INFO messages.
func (r *Report) InfoCount() int { return r.count(Info) }

// IsValid returns true if there are no FATAL or ERROR messages.
func (r *Report) IsValid() bool {
	return r.FatalCount() == 0 && r.ErrorCount() == 0
}

// Downgrade changes every WARNING to INFO. When checkIDs is non-nil only
// those checks are changed.
func (r *Report) Downgrade(checkIDs map[string]bool) {
	for i := range r.Messages {
		if r.Messages[i].Severity == Warning && (checkIDs == nil || checkIDs[r.Messages[i].CheckID]) {
			r.Messages[i].Severity = Info
		}
	}
}

// Upgrade changes the WARNING messages of the given checks to ERROR.
func (r *Report) Upgrade(checkIDs map[string]bool) {
	for i := range r.Messages {
		if r.Messages[i].Severity == Warning && checkIDs[r.Messages[i].CheckID] {
			r.Messages[i].Severity = Error
		}
	}
}
