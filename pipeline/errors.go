package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyContent    = errors.New("document content is empty")
	ErrEmptyDocumentID = errors.New("document id is empty")
	ErrEmptyQuery      = errors.New("search query is empty")
	ErrInvalidLimit    = errors.New("invalid result limit")
	ErrNoChunks        = errors.New("no chunks could be embedded")
)

// Kind classifies where a pipeline operation failed so callers can decide
// how hard to fail: bad input, the embedding model, or the vector store.
type Kind int

const (
	KindInput Kind = iota
	KindModel
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindModel:
		return "model"
	case KindStore:
		return "store"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the failure kind from an error chain. Unclassified
// errors report as store failures, the most conservative choice.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindStore
}
