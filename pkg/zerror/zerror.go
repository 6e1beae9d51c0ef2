package zerror

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the failure domain it belongs to.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSourceUnavailable
	KindMalformedDocument
	KindStoreError
	KindConfiguration
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSourceUnavailable:
		return "SOURCE_UNAVAILABLE"
	case KindMalformedDocument:
		return "MALFORMED_DOCUMENT"
	case KindStoreError:
		return "STORE_ERROR"
	case KindConfiguration:
		return "CONFIGURATION"
	default:
		return "UNKNOWN"
	}
}

// ZError represents the error structure.
type ZError struct {
	parent error
	kind   Kind
	code   string
	msg    string
}

// NewZError initializes a ZError instance.
//
// code example: SOURCE_UNAVAILABLE
func NewZError(parent error, kind Kind, code, msg string) ZError {
	return ZError{
		parent: parent,
		kind:   kind,
		code:   code,
		msg:    msg,
	}
}

// Error returns the error message for the ZError.
func (e ZError) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("Code=%s, Msg=%s, Parent=(%v)", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("Code=%s, Msg=%s", e.code, e.msg)
}

// WrapParent attaches an underlying error to an existing predefined ZError.
func (e ZError) WrapParent(parent error) ZError {
	if parent == nil {
		return e
	}
	e.parent = parent
	return e
}

// Unwrap returns the underlying error for the ZError.
func (e ZError) Unwrap() error {
	return e.parent
}

// Kind returns the kind of the ZError.
func (e ZError) Kind() Kind {
	return e.kind
}

// Code returns the code of the ZError.
func (e ZError) Code() string {
	return e.code
}

// Msg returns the message of the ZError.
func (e ZError) Msg() string {
	return e.msg
}

// Parent returns the underlying error for the ZError.
func (e ZError) Parent() error {
	return e.parent
}

// KindOf reports the kind of the first ZError found in err's chain,
// or KindUnknown when the chain carries none.
func KindOf(err error) Kind {
	var ze ZError
	if errors.As(err, &ze) {
		return ze.kind
	}
	return KindUnknown
}

func NewSourceUnavailable(code, msg string) ZError {
	return NewZError(nil, KindSourceUnavailable, code, msg)
}

func NewMalformedDocument(code, msg string) ZError {
	return NewZError(nil, KindMalformedDocument, code, msg)
}

func NewStoreError(code, msg string) ZError {
	return NewZError(nil, KindStoreError, code, msg)
}

func NewConfiguration(code, msg string) ZError {
	return NewZError(nil, KindConfiguration, code, msg)
}
