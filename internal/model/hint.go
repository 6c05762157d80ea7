package model

import "errors"

// Hinter is implemented by errors that know how the user can fix them.
type Hinter interface {
	Hint() string
}

// HintFor returns the remediation of the first error in err's chain that
// offers one, or an empty string.
func HintFor(err error) string {
	var hinter Hinter
	if errors.As(err, &hinter) {
		return hinter.Hint()
	}

	return ""
}
