package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark tags err so that errors.Is(err, mark) holds while the original chain
// stays intact. A nil err yields mark itself.
func Mark(err error, mark error) error {
	if err == nil {
		return mark
	}
	return &marked{cause: cr.Mark(err, mark), mark: mark}
}

// WrapMark adds context and a sentinel in one step. A nil err stays nil.
func WrapMark(err error, mark error, msg string) error {
	if err == nil {
		return nil
	}
	return Mark(cr.Wrap(err, msg), mark)
}

// Is reports whether ref is err, a cause of err, or a mark on err. It also
// matches marks that crossed a network boundary.
func Is(err, ref error) bool {
	return cr.Is(err, ref)
}

// marked exposes the mark to the standard errors.Is. cockroachdb's own mark
// wrapper is only visible through cr.Is.
type marked struct {
	cause error
	mark  error
}

func (m *marked) Error() string { return m.cause.Error() }

func (m *marked) Unwrap() error { return m.cause }

func (m *marked) Is(target error) bool { return target == m.mark }

func (m *marked) Format(s fmt.State, verb rune) {
	if f, ok := m.cause.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprintf(s, fmt.FormatString(s, verb), m.cause)
}

// ExtractStackLines renders err with its stack and keeps the first
// maxLines non-blank lines for structured logs.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(fmt.Sprintf("%+v", err), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if maxLines > 0 && len(lines) == maxLines {
			break
		}
	}
	return lines
}
