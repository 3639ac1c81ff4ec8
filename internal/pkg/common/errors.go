package common

import (
	"fmt"
)

// SystemError marks a defect in the checker itself (broken invariant,
// impossible case). It is raised with panic and recovered at the entry
// point; it must never surface as an ordinary user diagnostic.
type SystemError struct {
	Message string
}

func (e SystemError) Error() string {
	return fmt.Sprintf("system error: %s", e.Message)
}
