// Package errs defines the typed errors shared by the domain, the use cases and
// the adapters.
//
// Every type pairs with a sentinel and its Unwrap returns only that sentinel, so
// callers classify with errors.Is and read details with errors.As:
//
//	var notFound *errs.ObjectNotFoundError
//	if errors.As(err, &notFound) {
//	    log.Info("missing", "param", notFound.ParamName)
//	}
//	if errors.Is(err, errs.ErrInvalidState) {
//	    // the delivery cannot take this step from its current status
//	}
//
// Validation failures (required, invalid, out of range, unknown status) are
// grouped by IsValidation. Lifecycle errors cover unauthorized actors, illegal
// transitions, role mismatches and uniqueness conflicts.
package errs
