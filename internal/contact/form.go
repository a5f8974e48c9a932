package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FailureMessage is shown for every failed submission.
const FailureMessage = "Oops! Something went wrong. Please try again later."

// ErrInFlight is returned by Submit while a submission is outstanding.
var ErrInFlight = errors.New("contact: submission already in flight")

// Status is the submission state of a form.
type Status int

const (
	Idle Status = iota
	Submitting
	Submitted
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of a form.
type State struct {
	ID      string
	Fields  Fields
	Status  Status
	Failure string // set only when Status is Failed
}

// Outcome classifies a finished submission.
type Outcome int

const (
	Success Outcome = iota
	Failure
)

// Result is the typed resolution of a submission.
type Result struct {
	Outcome Outcome
	Reason  string // user-facing message on Failure
	Err     error  // relay error on Failure, for diagnostics
}

// Submission is one outstanding relay call.
type Submission struct {
	done   chan struct{}
	result Result
}

// Wait blocks until the submission resolves or ctx is done. The
// submission keeps running if ctx ends first.
func (s *Submission) Wait(ctx context.Context) (Result, error) {
	select {
	case <-s.done:
		return s.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Form is the state of one contact form instance. At most one submission
// is in flight at a time. All methods are safe for concurrent use.
type Form struct {
	id     string
	relay  Relay
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	fields   Fields
	status   Status
	failure  string
	detached bool
	inflight *Submission
}

// NewForm creates an idle form with empty fields.
func NewForm(id string, relay Relay, logger *zap.Logger) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Form{id: id, relay: relay, logger: logger, now: time.Now}
}

// ID returns the form instance id.
func (f *Form) ID() string { return f.id }

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{ID: f.id, Fields: f.fields, Status: f.status, Failure: f.failure}
}

// SetField updates exactly one field.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields.set(name, value)
}

// SetFields updates every field at once, as a full form post does.
func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

// Submit validates the fields and starts a relay call. It returns
// ErrInFlight without touching the relay while another submission is
// outstanding, and a *ValidationError when a field is empty or the email
// is malformed.
//
// The relay call is not tied to ctx cancellation; ctx only carries values.
func (f *Form) Submit(ctx context.Context) (*Submission, error) {
	f.mu.Lock()
	if f.status == Submitting {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	if err := Validate(f.fields); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.status = Submitting
	f.failure = ""
	sub := &Submission{done: make(chan struct{})}
	f.inflight = sub
	msg := Message{
		ID:     uuid.NewString(),
		FormID: f.id,
		Fields: f.fields,
		SentAt: f.now(),
	}
	f.mu.Unlock()

	go f.run(context.WithoutCancel(ctx), sub, msg)
	return sub, nil
}

func (f *Form) run(ctx context.Context, sub *Submission, msg Message) {
	err := f.relay.Send(ctx, msg)

	f.mu.Lock()
	defer f.mu.Unlock()
	defer close(sub.done)

	if err != nil {
		sub.result = Result{Outcome: Failure, Reason: FailureMessage, Err: err}
		f.logger.Error("failed to send contact message",
			zap.String("form", f.id), zap.String("message", msg.ID), zap.Error(err))
	} else {
		sub.result = Result{Outcome: Success}
		f.logger.Info("contact message sent",
			zap.String("form", f.id), zap.String("message", msg.ID))
	}

	f.inflight = nil
	if f.detached {
		return
	}
	if err != nil {
		f.status = Failed
		f.failure = FailureMessage
		return
	}
	f.status = Submitted
	f.fields = Fields{}
}

// Pending returns the outstanding submission, or nil.
func (f *Form) Pending() *Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight
}

// ResetAfterSuccess moves a Submitted form back to Idle with empty fields.
// It reports whether the form was Submitted.
func (f *Form) ResetAfterSuccess() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != Submitted {
		return false
	}
	f.status = Idle
	f.fields = Fields{}
	f.failure = ""
	return true
}

// Detach marks the form as no longer displayed. A submission resolving
// afterwards does not change the form's state.
func (f *Form) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = true
}
