package container

import "strconv"

// ResolutionError is returned by GetService when no descriptor is registered
// for the requested identity, or when a generic Resolve type-assertion fails.
type ResolutionError struct{ Identity string }

func (e *ResolutionError) Error() string {
	return "container: no service registered for " + strconv.Quote(e.Identity)
}
