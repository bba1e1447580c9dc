// Package exitcode maps failures to the process exit status and prints the
// final user-facing line.
//
// Codes:
//
//	0  success
//	1  general error (bad usage, parse failures, interruption)
//	2  server error (the MCP server or the protocol failed)
//	3  invalid input (malformed JSON on stdin or in arguments)
package exitcode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mcpie/internal/cli"
)

// Code is a process exit status.
type Code int

const (
	Success      Code = 0
	GeneralError Code = 1
	ServerError  Code = 2
	InvalidInput Code = 3
)

// String names the code.
func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case GeneralError:
		return "general error"
	case ServerError:
		return "server error"
	case InvalidInput:
		return "invalid input"
	default:
		return fmt.Sprintf("exit code %d", int(c))
	}
}

// serverKeywords mark an unstructured error as coming from the server.
var serverKeywords = []string{"server", "mcp"}

// IsServerMessage reports whether msg mentions the server or MCP, ignoring case.
func IsServerMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, kw := range serverKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Classify picks the exit code for err. Structured kinds decide first; the
// keyword check only applies to connection failures and unstructured errors.
func Classify(err error) Code {
	if err == nil {
		return Success
	}

	switch cli.KindOf(err) {
	case cli.KindInterrupted:
		return GeneralError
	case cli.KindDecode:
		return InvalidInput
	case cli.KindProtocol:
		return ServerError
	case cli.KindParse:
		return GeneralError
	case cli.KindConnection:
		var connErr *cli.ConnectionError
		if errors.As(err, &connErr) && connErr.Reason != nil && IsServerMessage(connErr.Reason.Error()) {
			return ServerError
		}
		return GeneralError
	}

	if isJSONError(err) {
		return InvalidInput
	}
	if IsServerMessage(err.Error()) {
		return ServerError
	}
	return GeneralError
}

func isJSONError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// Message renders the final line printed for err under code.
func Message(err error, code Code) string {
	if err == nil {
		return ""
	}
	if cli.KindOf(err) == cli.KindInterrupted {
		return "Interrupted by user"
	}
	switch code {
	case InvalidInput:
		return fmt.Sprintf("Invalid JSON input: %v", err)
	case ServerError:
		return fmt.Sprintf("Server error: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// Mapper prints the final message and terminates the process. Its fields
// are replaceable so tests can observe exits.
type Mapper struct {
	Stdout io.Writer
	Stderr io.Writer
	Exit   func(code int)
}

// Default writes to the process streams and calls os.Exit.
var Default = &Mapper{Stdout: os.Stdout, Stderr: os.Stderr, Exit: os.Exit}

// ExitWithCode prints message, to stdout on success and stderr otherwise,
// unless quiet is set or the message is empty, then exits with code.
func (m *Mapper) ExitWithCode(code Code, message string, quiet bool) {
	if !quiet && message != "" {
		w := m.Stderr
		if code == Success {
			w = m.Stdout
		}
		fmt.Fprintln(w, message)
	}
	m.Exit(int(code))
}

// Fail classifies err, prints its message and exits.
func (m *Mapper) Fail(err error, quiet bool) {
	code := Classify(err)
	m.ExitWithCode(code, Message(err, code), quiet)
}

// ExitWithCode is Default.ExitWithCode.
func ExitWithCode(code Code, message string, quiet bool) {
	Default.ExitWithCode(code, message, quiet)
}
