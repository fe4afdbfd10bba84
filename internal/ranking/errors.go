package ranking

import "fmt"

// UnknownSortFieldError reports a sort field outside the recognised set.
type UnknownSortFieldError struct {
	Field string
}

func (e *UnknownSortFieldError) Error() string {
	return fmt.Sprintf("unknown sort field %q", e.Field)
}
