package session

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Machine states. Kept untyped so they double as statekit state IDs.
const (
	stateIdle        = "idle"
	stateUploading   = "uploading"
	stateAnalyzing   = "analyzing"
	stateReady       = "ready"
	stateTranslating = "translating"
	stateFailed      = "failed"
)

// Machine events.
const (
	eventUpload    = "upload"
	eventAnalyze   = "analyze"
	eventTranslate = "translate"
	eventRevert    = "revert"
	eventSucceed   = "succeed"
	eventFail      = "fail"
)

type machineContext struct {
	SessionID string
}

// statusMachine enforces the legal status transitions of one session.
type statusMachine struct {
	interpreter *statekit.Interpreter[machineContext]
}

func newStatusMachine(sessionID string) (*statusMachine, error) {
	builder := statekit.NewMachine[machineContext]("session-status").
		WithInitial(statekit.StateID(stateIdle)).
		WithContext(machineContext{SessionID: sessionID})

	builder.State(stateIdle).
		On(eventUpload).Target(stateUploading).
		On(eventAnalyze).Target(stateAnalyzing).
		Done()

	builder.State(stateUploading).
		On(eventAnalyze).Target(stateAnalyzing).
		On(eventFail).Target(stateFailed).
		Done()

	builder.State(stateAnalyzing).
		On(eventSucceed).Target(stateReady).
		On(eventFail).Target(stateFailed).
		On(eventUpload).Target(stateUploading).
		Done()

	builder.State(stateReady).
		On(eventTranslate).Target(stateTranslating).
		On(eventUpload).Target(stateUploading).
		Done()

	builder.State(stateTranslating).
		On(eventSucceed).Target(stateReady).
		On(eventFail).Target(stateFailed).
		On(eventRevert).Target(stateReady).
		On(eventUpload).Target(stateUploading).
		Done()

	builder.State(stateFailed).
		On(eventAnalyze).Target(stateAnalyzing).
		On(eventTranslate).Target(stateTranslating).
		On(eventRevert).Target(stateReady).
		On(eventUpload).Target(stateUploading).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build status machine: %w", err)
	}
	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &statusMachine{interpreter: interpreter}, nil
}

// fire sends event and reports an error if the current status has no
// transition for it.
func (m *statusMachine) fire(event string) error {
	before := m.current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.current() != before {
		return nil
	}
	return fmt.Errorf("%w: %s while %s", ErrIllegalTransition, event, before)
}

func (m *statusMachine) current() Status {
	return Status(m.interpreter.State().Value)
}
