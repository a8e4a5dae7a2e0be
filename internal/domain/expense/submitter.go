package expense

import (
	"context"
	"sync/atomic"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/pkg/logger"
)

// SubmitState is the state of the submission pipeline.
type SubmitState int32

const (
	StateIdle SubmitState = iota
	StateSubmitting
)

// String returns the state name.
func (s SubmitState) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// SubmitterConfig configures a Submitter.
type SubmitterConfig struct {
	// Creator stores the expense. Required.
	Creator InvoiceCreator
	// Technician stamps the submitting technician. Required.
	Technician TechnicianProvider
	// Clock dates the fresh draft after a successful submit. Defaults to time.Now.
	Clock func() time.Time
}

// Submitter validates a draft, sends it to the backend and resets it on success.
// One submit runs at a time; a submit issued while another is running is refused.
type Submitter struct {
	creator    InvoiceCreator
	technician TechnicianProvider
	clock      func() time.Time
	state      atomic.Int32
}

// NewSubmitter creates a submitter.
func NewSubmitter(cfg SubmitterConfig) *Submitter {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Submitter{
		creator:    cfg.Creator,
		technician: cfg.Technician,
		clock:      cfg.Clock,
	}
}

// State reports whether a submit is running.
func (s *Submitter) State() SubmitState {
	return SubmitState(s.state.Load())
}

// Submit sends d to the backend and returns the created invoice.
//
// Validation failures return before any network call. On backend failure the
// draft is left exactly as it was and the error is a SUBMISSION_FAILED
// AppError carrying the backend's message, or a generic one. On success the
// draft is reset.
func (s *Submitter) Submit(ctx context.Context, d *Draft) (Created, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateSubmitting)) {
		return Created{}, apperror.NewSubmissionInProgress()
	}
	defer s.state.Store(int32(StateIdle))

	payload, err := BuildPayload(d, s.technician.CurrentTechnicianID(ctx))
	if err != nil {
		return Created{}, err
	}

	created, err := s.creator.CreateInvoice(ctx, payload)
	if err != nil {
		logger.Warn(ctx, "expense submission failed",
			"vendor", payload.Vendor,
			"total", payload.TotalAmount.String(),
			"error", err)
		return Created{}, submissionError(err)
	}

	d.Reset(s.clock())

	logger.Info(ctx, "expense submitted",
		"id", created.ID,
		"number", created.RegistryNumber,
		"total", payload.TotalAmount.String(),
		"positions", len(payload.Positions))

	return created, nil
}

// submissionError keeps the backend's message when it has one.
func submissionError(err error) error {
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Message == "" {
		return apperror.NewSubmissionFailed(MsgSaveFailed, err)
	}
	if appErr.Code == apperror.CodeSubmissionFailed {
		return appErr
	}
	return apperror.NewSubmissionFailed(appErr.Message, err).
		WithDetail("cause", appErr.Code)
}
