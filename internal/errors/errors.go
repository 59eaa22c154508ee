// Package errors provides the engine's single error type plus the
// line-numbered, caret-annotated formatting every compile and runtime
// failure is rendered with.
//
// Modeled on CWBudde-go-dws's internal/errors.CompilerError: the same
// Format/FormatWithContext caret-snippet rendering, trimmed to a single
// error type since the spec has no separate lexer/parser/semantic error
// hierarchies (§7 — one error taxonomy, distinguished by Code).
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/exprlang/internal/token"
)

// Code classifies an EngineError for programmatic handling (§7).
type Code int

const (
	// CodeUnknown is the zero value; never produced by the engine itself.
	CodeUnknown Code = iota

	// Parse errors (§7).
	CodeUnexpectedToken
	CodeUnterminatedString
	CodeInvalidNumber
	CodeInvalidIdentifier
	CodeUnexpectedEndOfFile
	CodeSyntaxError
	CodeInvalidFieldName
	CodeLexError   // generic lexer failure not covered by a more specific code
	CodeParseError // generic parser failure not covered by a more specific code

	// Runtime errors (§7).
	CodeUnknownField
	CodeTypeMismatch
	CodeDivisionByZero
	CodeModuloByZero
	CodeUnknownFunction
	CodeInvalidFunctionArguments
	CodeConversionFailed
	CodeAssertionFailed
	CodeUnknownOperator
	CodeNullReference

	// Limit errors (§7).
	CodeScriptTooLarge
	CodeMaxNodesExceeded
	CodeMaxVisitsExceeded
	CodeMaxDepthExceeded
	CodeExecutionTimeout
	CodeRegexTimeout
)

var codeStrings = map[Code]string{
	CodeUnknown: "Unknown",

	CodeUnexpectedToken:     "UnexpectedToken",
	CodeUnterminatedString:  "UnterminatedString",
	CodeInvalidNumber:       "InvalidNumber",
	CodeInvalidIdentifier:   "InvalidIdentifier",
	CodeUnexpectedEndOfFile: "UnexpectedEndOfFile",
	CodeSyntaxError:         "SyntaxError",
	CodeInvalidFieldName:    "InvalidFieldName",
	CodeLexError:            "LexError",
	CodeParseError:          "ParseError",

	CodeUnknownField:             "UnknownField",
	CodeTypeMismatch:             "TypeMismatch",
	CodeDivisionByZero:           "DivideByZero",
	CodeModuloByZero:             "ModuloByZero",
	CodeUnknownFunction:          "UnknownFunction",
	CodeInvalidFunctionArguments: "InvalidFunctionArguments",
	CodeConversionFailed:         "ConversionError",
	CodeAssertionFailed:          "AssertionFailed",
	CodeUnknownOperator:          "UnknownOperator",
	CodeNullReference:            "NullReference",

	CodeScriptTooLarge:    "ScriptTooLarge",
	CodeMaxNodesExceeded:  "MaxNodesExceeded",
	CodeMaxVisitsExceeded: "MaxVisitsExceeded",
	CodeMaxDepthExceeded:  "MaxDepthExceeded",
	CodeExecutionTimeout:  "ExecutionTimeout",
	CodeRegexTimeout:      "RegexTimeout",
}

func (c Code) String() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return "Unknown"
}

// EngineError is the single error type returned by every engine operation
// that can fail at compile or evaluation time.
type EngineError struct {
	Code    Code
	Message string
	Pos     token.Position
	Source  string // verbatim script text, for snippet rendering; may be empty
}

// New constructs an EngineError. Source may be left empty when no snippet
// rendering is needed (e.g. programmatic checks in tests).
func New(code Code, pos token.Position, message string) *EngineError {
	return &EngineError{Code: code, Pos: pos, Message: message}
}

// WithSource attaches the originating script text so Format can render a
// caret snippet.
func (e *EngineError) WithSource(source string) *EngineError {
	e.Source = source
	return e
}

func (e *EngineError) Error() string {
	return e.Format(false)
}

// Format renders the error as "[Code] message (at line:col)" plus, when Source
// is set, a line-numbered snippet with a caret under the offending column.
func (e *EngineError) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s (at %d:%d)\n", e.Code, e.Message, e.Pos.Line, e.Pos.Column)

	sourceLine := e.sourceLine(e.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
	}

	return sb.String()
}

// FormatWithContext renders the error with contextLines of surrounding
// source above and below the offending line.
func (e *EngineError) FormatWithContext(contextLines int, color bool) string {
	if e.Source == "" {
		return e.Format(color)
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return e.Format(color)
	}

	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s (at %d:%d)\n", e.Code, e.Message, e.Pos.Line, e.Pos.Column)

	for i := start; i <= end; i++ {
		lineNumStr := fmt.Sprintf("%4d | ", i)
		sb.WriteString(lineNumStr)
		sb.WriteString(lines[i-1])
		sb.WriteString("\n")
		if i == e.Pos.Line {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (e *EngineError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a list of EngineErrors, numbering them when there is
// more than one (mirrors the teacher's FormatErrors for multi-error parse
// results, §4.2 — the parser accumulates rather than stopping at the first
// syntax error).
func FormatAll(errs []*EngineError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&sb, "[%d/%d] ", i+1, len(errs))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
