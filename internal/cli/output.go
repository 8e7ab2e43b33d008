package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation/test failure (invalid network, failed scenarios, replay mismatch)
	ExitCommandError = 2 // Command error (unreadable file, bad graph, database not found, etc.)
)

// Error codes reported in CLI error envelopes.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeReadFailed     = "E002" // File read error
	ErrCodeUnsupported    = "E003" // Unsupported file extension
	ErrCodeDecodeFailed   = "E004" // YAML/JSON decode failed
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeCUEFailed      = "E006" // CUE compile or decode failed
	ErrCodeWriteFailed    = "E007" // Output write error
	ErrCodeInvalidGraph   = "E101" // Network failed to build
	ErrCodeDangling       = "E102" // Connector references a missing hole
	ErrCodeDuplicateID    = "E103" // Duplicate hole or connector id
	ErrCodeInvalidRecord  = "E104" // Record failed field validation
	ErrCodeInvalidNetwork = "E201" // Network has validation errors
	ErrCodeSimulation     = "E301" // Simulation failed
	ErrCodeStore          = "E401" // Archive error
	ErrCodeRunNotFound    = "E402" // Run id not in archive
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // includes the E-code when produced by Fail
	Err     error  // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError creates an ExitError around err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps a command error to a process exit code: ExitSuccess for
// nil, the carried code for an ExitError anywhere in the chain, ExitFailure
// otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope every command writes with --format json.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error half of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E102", ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // payload that explains the failure
}

// OutputFormatter writes command results as a JSON envelope or as text.
// Diagnostics go to ErrWriter so JSON on Writer stays parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success writes data. Text mode prints it with fmt; commands with richer
// text output write to Writer themselves and only call Success for JSON.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes an error envelope, or "Error [code]: message" in text mode.
// Details are printed in text mode only with --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		_, err := fmt.Fprintf(f.Writer, "Details: %v\n", details)
		return err
	}
	return nil
}

// Fail writes an error through Error and returns the ExitError the command
// should return. The error message starts with the E-code.
func (f *OutputFormatter) Fail(exitCode int, code, message string, details any, err error) error {
	if werr := f.Error(code, message, details); werr != nil {
		return WrapExitError(ExitCommandError, "failed to write output", werr)
	}
	return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), err)
}

// VerboseLog writes a progress line to GetErrWriter when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, or Writer when none is set.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
