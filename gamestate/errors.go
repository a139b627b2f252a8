package gamestate

import (
	"errors"
	"fmt"
)

var (
	ErrLineCount     = errors.New("wrong number of input lines")
	ErrTokenCount    = errors.New("wrong number of tokens")
	ErrNotInteger    = errors.New("expected an integer")
	ErrTrickLength   = errors.New("trick card count does not match number of players")
	ErrMalformedCard = errors.New("malformed card code")
	ErrMalformedSuit = errors.New("malformed suit")
	ErrDuplicateCard = errors.New("duplicate card in hand")
	ErrPlayerIndex   = errors.New("player index out of range")
)

// ParseError points at the line and field that could not be parsed. Use
// errors.Is with one of the Err* kinds above to tell them apart.
type ParseError struct {
	// Line is 0-indexed, matching the layout table of the format.
	Line  int
	Field string
	Err   error
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("line %d (%s): %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v: %s", e.Line, e.Field, e.Err, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(line int, field string, kind error, format string, args ...any) *ParseError {
	return &ParseError{
		Line:  line,
		Field: field,
		Err:   kind,
		Msg:   fmt.Sprintf(format, args...),
	}
}
