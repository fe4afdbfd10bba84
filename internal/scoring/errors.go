package scoring

import "fmt"

// InvalidRecordError reports a record whose required numeric field is missing
// or not a finite number. It aborts the whole batch.
type InvalidRecordError struct {
	Index      int
	InstanceID string
	Field      string
	Reason     string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record %d (%q): %s %s", e.Index, e.InstanceID, e.Field, e.Reason)
}
