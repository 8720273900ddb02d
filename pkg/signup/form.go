package signup

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/kivahq/kiva-waitlist/pkg/errors"
	"github.com/kivahq/kiva-waitlist/pkg/localstate"
)

// State is the form lifecycle position.
type State string

const (
	// StateIdle accepts edits and a submit.
	StateIdle State = "idle"
	// StateSubmitting has exactly one request in flight; further submits
	// are rejected until it resolves.
	StateSubmitting State = "submitting"
	// StateSubmitted holds the success view until Reset.
	StateSubmitted State = "submitted"
)

// DefaultUserType is preselected on a fresh form.
const DefaultUserType = "buyer"

var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrAlreadySubmitted   = errors.New("form already submitted; reset it to submit another entry")
	ErrNotSubmitted       = errors.New("form has not been submitted")
)

// EmailStore persists the last successfully submitted email for user
// recall across sessions. It is never consulted to admit or reject a
// submission.
type EmailStore interface {
	Set(key, value string) error
}

// Form drives the submission lifecycle as an explicit state machine:
//
//	idle --Submit--> submitting --success--> submitted --Reset--> idle
//	                     \--failure--> idle (fields retained)
//
// Local validation runs before any network call; a validation failure
// keeps the form idle and issues no request.
type Form struct {
	mu sync.Mutex

	state     State
	fields    Submission
	lastID    string
	submitter Submitter
	store     EmailStore
	validate  *validator.Validate
}

// NewForm returns an idle form with the default user type preselected.
// store may be nil when no durable client-side state is wanted.
func NewForm(submitter Submitter, store EmailStore) *Form {
	return &Form{
		state:     StateIdle,
		fields:    Submission{UserType: DefaultUserType},
		submitter: submitter,
		store:     store,
		validate:  validator.New(),
	}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Fields() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// LastSubmissionID returns the entry ID of the most recent successful
// submission, or "" when there has been none.
func (f *Form) LastSubmissionID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastID
}

// SetFields replaces the form's input values. Only an idle form is
// editable. An empty user type keeps the default selection.
func (f *Form) SetFields(s Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateSubmitted:
		return ErrAlreadySubmitted
	}

	if s.UserType == "" {
		s.UserType = DefaultUserType
	}
	f.fields = s
	return nil
}

// Validate runs the local validation rules and returns field-level
// errors, or nil when the current fields would be accepted.
func (f *Form) Validate() []apperrors.ValidationErrorResponse {
	f.mu.Lock()
	fields := f.fields
	f.mu.Unlock()

	return f.validateFields(&fields)
}

func (f *Form) validateFields(fields *Submission) []apperrors.ValidationErrorResponse {
	if err := f.validate.Struct(fields); err != nil {
		return apperrors.FormatValidationErrors(err, fields)
	}
	return nil
}

// Submit runs local validation and, on success, issues exactly one
// request. On a success response the form transitions to submitted, the
// email is persisted for recall, and the fields are cleared. On any
// failure the form returns to idle with fields retained so the user can
// correct and resubmit; nothing retries automatically.
func (f *Form) Submit(ctx context.Context) (*SubmitOutcome, error) {
	f.mu.Lock()

	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	case StateSubmitted:
		f.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}

	fields := f.fields
	if fieldErrors := f.validateFields(&fields); len(fieldErrors) > 0 {
		f.mu.Unlock()
		return nil, &SubmissionError{Message: "Invalid form data", Errors: fieldErrors}
	}

	f.state = StateSubmitting
	f.mu.Unlock()

	outcome, err := f.submitter.Submit(ctx, fields)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = StateIdle

		var submissionErr *SubmissionError
		if errors.As(err, &submissionErr) {
			return nil, submissionErr
		}
		// Transport-level failure with no server message to surface.
		return nil, &SubmissionError{Message: FallbackErrorMessage}
	}

	f.state = StateSubmitted
	f.lastID = outcome.ID
	f.fields = Submission{UserType: DefaultUserType}

	if f.store != nil {
		// Recall-only state; a write failure must not fail the submission.
		_ = f.store.Set(localstate.KeyWaitlistEmail, fields.Email)
	}

	return outcome, nil
}

// Reset is the "submit another" action: it returns a submitted form to an
// empty idle state.
func (f *Form) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSubmitted {
		return ErrNotSubmitted
	}

	f.state = StateIdle
	f.fields = Submission{UserType: DefaultUserType}
	return nil
}
