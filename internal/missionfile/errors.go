package missionfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidMissionFile = errors.New("invalid mission file")

// errorLogger accumulates validation errors along with the path to the
// item that was being checked, so that all problems in a file are
// reported at once.
type errorLogger struct {
	hierarchy []string
	errors    []string
}

func (e *errorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *errorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *errorLogger) ErrorString(s string, args ...any) {
	e.errors = append(e.errors, strings.Join(e.hierarchy, " / ")+": "+fmt.Sprintf(s, args...))
}

func (e *errorLogger) Error(err error) {
	e.errors = append(e.errors, strings.Join(e.hierarchy, " / ")+": "+err.Error())
}

func (e *errorLogger) HaveErrors() bool {
	return len(e.errors) > 0
}

func (e *errorLogger) Err() error {
	if !e.HaveErrors() {
		return nil
	}
	return fmt.Errorf("%w:\n%s", ErrInvalidMissionFile, strings.Join(e.errors, "\n"))
}

// unmarshalJSON is json.Unmarshal with the error's byte offset turned
// into a line and character position.
func unmarshalJSON[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	var serr *json.SyntaxError
	var terr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &serr):
		line, char := decodeOffset(serr.Offset)
		return fmt.Errorf("%w: line %d, character %d: %v", ErrInvalidMissionFile, line, char, serr)
	case errors.As(err, &terr):
		line, char := decodeOffset(terr.Offset)
		return fmt.Errorf("%w: line %d, character %d: %s value for %s invalid for type %s",
			ErrInvalidMissionFile, line, char, terr.Value, terr.Field, terr.Type.String())
	default:
		return fmt.Errorf("%w: %v", ErrInvalidMissionFile, err)
	}
}
