package argh

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkgtools/go-argh/internal/fuzzy"
)

// ErrorType categorizes user-facing parse errors. Categories drive both
// suggestion lookup and exit-status mapping.
type ErrorType string

const (
	ErrorTypeUnknownFlag    ErrorType = "unknown_flag"
	ErrorTypeUnknownCommand ErrorType = "unknown_command"
	ErrorTypeInvalidValue   ErrorType = "invalid_value"
	ErrorTypeMissingValue   ErrorType = "missing_value"
	ErrorTypeUnrecognized   ErrorType = "unrecognized_arguments"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeInternal       ErrorType = "internal_error"
)

// ParseError is the user-input error produced by parsing and post-parse
// validation. It reaches the user through the parser's standard error path:
// a formatted message on stderr and a non-zero exit status.
type ParseError struct {
	Type       ErrorType
	Message    string
	Flag       string
	Command    string
	Suggestion string
}

func (e *ParseError) Error() string {
	return e.Message
}

// userMessage renders the message with its suggestion, if any.
func (e *ParseError) userMessage() string {
	if e.Suggestion == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (did you mean %q?)", e.Message, e.Suggestion)
}

// NewParseError creates a ParseError with the given category and message.
func NewParseError(typ ErrorType, message string) *ParseError {
	return &ParseError{Type: typ, Message: message}
}

// Errorf builds a validation ParseError; the idiomatic way for final-check
// callbacks to reject an argument combination.
func Errorf(format string, args ...any) *ParseError {
	return &ParseError{Type: ErrorTypeValidation, Message: fmt.Sprintf(format, args...)}
}

// suggestDistance is the maximum edit distance considered for "did you mean"
// suggestions on unknown flags and subcommands.
const suggestDistance = 2

func unknownFlagError(name string, candidates []string) *ParseError {
	return &ParseError{
		Type:       ErrorTypeUnknownFlag,
		Message:    "unknown flag: --" + name,
		Flag:       name,
		Suggestion: fuzzy.Suggest(name, candidates, suggestDistance),
	}
}

func unknownCommandError(name string, known map[string]*Command) *ParseError {
	choices := make([]string, 0, len(known))
	for choice := range known {
		choices = append(choices, choice)
	}
	sort.Strings(choices)
	return &ParseError{
		Type:       ErrorTypeUnknownCommand,
		Message:    fmt.Sprintf("unknown subcommand %q (choices: %s)", name, strings.Join(choices, ", ")),
		Command:    name,
		Suggestion: fuzzy.Suggest(name, choices, suggestDistance),
	}
}

func invalidValueError(flag *Flag, err error) *ParseError {
	return &ParseError{
		Type:    ErrorTypeInvalidValue,
		Message: fmt.Sprintf("--%s: %v", flag.Name, err),
		Flag:    flag.Name,
	}
}

func missingValueError(display string, flag *Flag) *ParseError {
	return &ParseError{
		Type:    ErrorTypeMissingValue,
		Message: "flag requires a value: " + display,
		Flag:    flag.Name,
	}
}
