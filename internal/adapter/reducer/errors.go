package reducer

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure marks a document that does not have the shape a pass relies on.
	ErrStructure = errors.New("unexpected document structure")

	ErrUnknownPass = errors.New("unknown pass")
)

// StructuralError reports a violated structural assumption. The file it
// occurred in must not be written.
type StructuralError struct {
	Pass   string
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Pass, ErrStructure, e.Detail)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructure
}

func structural(pass, format string, args ...any) error {
	return &StructuralError{Pass: pass, Detail: fmt.Sprintf(format, args...)}
}
