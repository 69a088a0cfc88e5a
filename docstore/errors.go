/*
errors.go - Centralized error taxonomy

Three categories surface at the HTTP boundary:
  - bad request:  ErrInvalidPath (malformed/missing identifiers)
  - not found:    ErrUserNotFound, ErrNoUsers, ErrNoExpenseRecords,
                  ErrDocumentNotFound
  - store error:  anything else bubbling up from an adapter

Domain packages wrap these with context via fmt.Errorf("...: %w", err);
handlers classify with errors.Is / IsNotFound.
*/
package docstore

import "errors"

var (
	// ErrInvalidPath is returned when a path is empty or does not address
	// the expected kind of node (document vs collection).
	ErrInvalidPath = errors.New("invalid document path")

	// ErrDocumentNotFound is returned by write operations that require an
	// existing document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUserNotFound is returned when a referenced user document is absent.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoUsers is returned when the users collection is empty.
	ErrNoUsers = errors.New("no users found")

	// ErrNoExpenseRecords is returned when a user exists but the requested
	// period has no expense entries.
	ErrNoExpenseRecords = errors.New("no expense records found")
)

// IsNotFound reports whether err indicates absent data rather than a
// failing store.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNoUsers) ||
		errors.Is(err, ErrNoExpenseRecords) ||
		errors.Is(err, ErrDocumentNotFound)
}

// IsClientError reports whether err is caused by invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPath)
}
