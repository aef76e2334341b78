package gateway

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Op names a remote operation.
type Op string

const (
	OpUpload    Op = "upload"
	OpAnalyze   Op = "analyze"
	OpTranslate Op = "translate"
	OpExport    Op = "export"
	OpAsk       Op = "ask"
)

// Failure classes, one per remote operation. Match them with errors.Is.
var (
	ErrUpload      = errors.New("upload failed")
	ErrAnalysis    = errors.New("analysis failed")
	ErrTranslation = errors.New("translation failed")
	ErrExport      = errors.New("checklist export failed")
	ErrQuestion    = errors.New("question failed")
)

func (op Op) class() error {
	switch op {
	case OpUpload:
		return ErrUpload
	case OpAnalyze:
		return ErrAnalysis
	case OpTranslate:
		return ErrTranslation
	case OpExport:
		return ErrExport
	default:
		return ErrQuestion
	}
}

// Error is a failed remote call. StatusCode is zero for transport and
// decoding failures.
type Error struct {
	Op         Op
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op.class(), e.StatusCode, truncate(msg, 200))
	}
	return fmt.Sprintf("%s: %s", e.Op.class(), truncate(msg, 200))
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Op.class()}
	}
	return []error{e.Op.class(), e.Err}
}

// Temporary reports whether the backend signalled a transient condition.
// Nothing retries automatically; callers may surface it as "try again".
func (e *Error) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
