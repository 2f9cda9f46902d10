package circulation

import "errors"

// Sentinel failures callers branch on with errors.Is. Anything else coming
// out of this package is a storage fault and is safe to retry wholesale,
// since no partial effect survives a failed transaction.
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrReaderNotFound = errors.New("reader not found")
	ErrRecordNotFound = errors.New("open borrow record not found")
	ErrPastDueDate    = errors.New("due date is in the past")
	ErrNoCopies       = errors.New("no copies available")
)
