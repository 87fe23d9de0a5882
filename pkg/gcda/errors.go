package gcda

import "errors"

var (
	// ErrInvalidMagic reports a file that does not start with the gcda
	// magic word in either byte order.
	ErrInvalidMagic = errors.New("gcda: invalid file magic")

	// ErrBadVersion reports a format-revision word that cannot be decoded.
	ErrBadVersion = errors.New("gcda: malformed version word")

	// ErrUnexpectedEnd reports a field or record that declares more bytes
	// than the input holds.
	ErrUnexpectedEnd = errors.New("gcda: unexpected end of input")

	// ErrInvalidLength reports a record length inconsistent with the
	// shapes its tag allows.
	ErrInvalidLength = errors.New("gcda: invalid record length")

	// ErrTrailingBytes reports a stream that stops inside a record header,
	// or carries bytes past the stream terminator.
	ErrTrailingBytes = errors.New("gcda: trailing bytes")
)
