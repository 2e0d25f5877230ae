package stagecode

import "fmt"

// StageFormatError reports a stage code that cannot be decoded. Record is the
// zero-based record index, or -1 when the failure is in the outer wrapping.
type StageFormatError struct {
	Record int
	Reason string
	Err    error
}

func (e *StageFormatError) Error() string {
	msg := "stagecode: "
	if e.Record >= 0 {
		msg += fmt.Sprintf("record %d: ", e.Record)
	}
	msg += e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StageFormatError) Unwrap() error {
	return e.Err
}

func formatErr(record int, reason string, err error) error {
	return &StageFormatError{Record: record, Reason: reason, Err: err}
}
