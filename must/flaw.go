package must

import (
	"errors"
	"fmt"

	"github.com/xeptore/flaw/v8"
)

// BeFlaw asserts err wraps a *flaw.Flaw and returns it.
func BeFlaw(err error) *flaw.Flaw {
	if f := new(flaw.Flaw); errors.As(err, &f) {
		return f
	}
	panic(fmt.Sprintf("error of type %T is not a flaw: %v", err, err))
}
