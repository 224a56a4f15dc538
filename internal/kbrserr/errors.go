// Package kbrserr defines the sentinel error kinds the rest of the module
// wraps layer-specific errors in, so callers can classify failures with
// errors.Is/errors.As regardless of the underlying cause.
package kbrserr

import "errors"

// Sentinel error kinds. Wrap an underlying cause with fmt.Errorf("...: %w",
// kind) or use the Wrap helpers below.
var (
	// ErrInvalidKeybind marks an unparseable keybind expression (deck line
	// or config chord).
	ErrInvalidKeybind = errors.New("invalid keybind")
	// ErrDeckParse marks a malformed TSV deck line.
	ErrDeckParse = errors.New("deck parse error")
	// ErrStorage marks a database error: open, query, or transaction
	// failure.
	ErrStorage = errors.New("storage error")
	// ErrStorageHistoryCorruption marks an unparseable reviews.timestamp;
	// distinct from ErrStorage because it is never a due-date degradation.
	ErrStorageHistoryCorruption = errors.New("corrupt review history")
	// ErrTerminal marks a failure to push or pop terminal keyboard
	// enhancement flags.
	ErrTerminal = errors.New("terminal error")
	// ErrIo marks an unreadable deck directory.
	ErrIo = errors.New("io error")
)

// Wrap joins an underlying cause to one of the sentinel kinds above, so
// errors.Is(err, kind) and errors.Unwrap(err) both work.
func Wrap(kind error, cause error) error {
	if cause == nil {
		return nil
	}
	return &wrapped{kind: kind, cause: cause}
}

type wrapped struct {
	kind  error
	cause error
}

func (w *wrapped) Error() string {
	return w.kind.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.kind, w.cause}
}
