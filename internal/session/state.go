package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/lexplain/internal/analysis"
	"github.com/google/uuid"
)

// Status is the lifecycle position of a review session.
type Status string

const (
	StatusIdle        Status = stateIdle
	StatusUploading   Status = stateUploading
	StatusAnalyzing   Status = stateAnalyzing
	StatusReady       Status = stateReady
	StatusTranslating Status = stateTranslating
	StatusFailed      Status = stateFailed
)

var (
	ErrNoDocument        = errors.New("no document")
	ErrNotAnalyzed       = errors.New("document has not been analyzed")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrEmptyFile         = errors.New("file is empty")
	ErrBusy              = errors.New("session is busy")
	ErrSuperseded        = errors.New("result superseded by a newer request")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Generation tags an in-flight request. A response is applied only while
// the session still carries the generation it was started under.
type Generation struct {
	DocumentRef string `json:"document_ref"`
	Seq         uint64 `json:"seq"`
}

func (g Generation) String() string {
	return fmt.Sprintf("%s#%d", g.DocumentRef, g.Seq)
}

// State is the review state of one document. It is owned by the
// Orchestrator and only mutated under its lock.
type State struct {
	ID          string
	DocumentRef string
	MimeType    string
	FileName    string
	ContentHash string
	Preview     string
	Outline     []string

	Language     string
	Canonical    *analysis.DocumentAnalysis
	Display      *analysis.DocumentAnalysis
	ErrorMessage string
	QAError      string
	UpdatedAt    time.Time

	machine    *statusMachine
	gen        Generation
	displaySeq uint64
	analyzing  bool
}

func newState(ref, mimeType, language string) (*State, error) {
	id := uuid.New().String()
	m, err := newStatusMachine(id)
	if err != nil {
		return nil, err
	}
	return &State{
		ID:          id,
		DocumentRef: ref,
		MimeType:    mimeType,
		Language:    language,
		UpdatedAt:   time.Now(),
		machine:     m,
		gen:         Generation{DocumentRef: ref},
	}, nil
}

// Status returns the current lifecycle status.
func (s *State) Status() Status {
	return s.machine.current()
}

// transition fires event and clears the error message, which only
// survives until the next status change.
func (s *State) transition(event string) error {
	if err := s.machine.fire(event); err != nil {
		return err
	}
	s.ErrorMessage = ""
	s.UpdatedAt = time.Now()
	return nil
}

// fail moves to Failed with the given reason. The reason is recorded even
// when the machine refuses the fail event, and that refusal is returned.
func (s *State) fail(reason error) error {
	var err error
	if s.Status() != StatusFailed {
		err = s.machine.fire(eventFail)
	}
	s.ErrorMessage = reason.Error()
	s.UpdatedAt = time.Now()
	return err
}

// Snapshot is a read-only, JSON-safe copy of the session.
type Snapshot struct {
	ID          string                     `json:"id"`
	DocumentRef string                     `json:"document_ref,omitempty"`
	MimeType    string                     `json:"mime_type,omitempty"`
	FileName    string                     `json:"file_name,omitempty"`
	ContentHash string                     `json:"content_hash,omitempty"`
	Preview     string                     `json:"preview,omitempty"`
	Outline     []string                   `json:"outline,omitempty"`
	Language    string                     `json:"language"`
	Status      Status                     `json:"status"`
	Error       string                     `json:"error,omitempty"`
	QAError     string                     `json:"qa_error,omitempty"`
	Canonical   *analysis.DocumentAnalysis `json:"canonical,omitempty"`
	Display     *analysis.DocumentAnalysis `json:"display,omitempty"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func (s *State) snapshot() Snapshot {
	return Snapshot{
		ID:          s.ID,
		DocumentRef: s.DocumentRef,
		MimeType:    s.MimeType,
		FileName:    s.FileName,
		ContentHash: s.ContentHash,
		Preview:     s.Preview,
		Outline:     append([]string(nil), s.Outline...),
		Language:    s.Language,
		Status:      s.Status(),
		Error:       s.ErrorMessage,
		QAError:     s.QAError,
		Canonical:   s.Canonical.Clone(),
		Display:     s.Display.Clone(),
		UpdatedAt:   s.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
