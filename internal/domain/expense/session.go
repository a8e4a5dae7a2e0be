package expense

import (
	"context"
	"slices"
	"time"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/types"
	"barinalp/internal/domain/costobject"
	"barinalp/pkg/logger"
)

// RouteNewExpense is the route name of the expense entry page.
const RouteNewExpense = "new-expense"

// SessionConfig wires a Session to its collaborators.
type SessionConfig struct {
	// Objects lists the selectable cost objects. Required.
	Objects CostObjectLister
	// Creator stores submitted expenses. Required.
	Creator InvoiceCreator
	// Technician identifies the submitter. Defaults to ContextTechnician.
	Technician TechnicianProvider
	// Notifier receives every user-facing message. Defaults to discarding them.
	Notifier Notifier
	// Formatter renders amounts in the allocation view.
	Formatter types.Formatter
	// Clock supplies "today" for fresh drafts. Defaults to time.Now.
	Clock func() time.Time
}

// Session is the controller of one expense entry page. It owns a single
// draft and is meant to be driven by one user at a time.
type Session struct {
	objects   CostObjectLister
	notifier  Notifier
	formatter types.Formatter
	clock     func() time.Time
	submitter *Submitter

	draft   *Draft
	options []costobject.Option
}

// NewSession creates a session with a fresh draft.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Technician == nil {
		cfg.Technician = ContextTechnician{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = discardNotifier{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Session{
		objects:   cfg.Objects,
		notifier:  cfg.Notifier,
		formatter: cfg.Formatter,
		clock:     cfg.Clock,
		submitter: NewSubmitter(SubmitterConfig{
			Creator:    cfg.Creator,
			Technician: cfg.Technician,
			Clock:      cfg.Clock,
		}),
		draft: NewDraft(cfg.Clock()),
	}
}

// Name implements Page.
func (s *Session) Name() string {
	return RouteNewExpense
}

// Enter implements Enterer: it starts a fresh draft and loads the cost objects.
func (s *Session) Enter(ctx context.Context) error {
	s.draft.Reset(s.clock())
	return s.Load(ctx)
}

// Leave implements Leaver: navigating away discards the draft.
func (s *Session) Leave(context.Context) {
	s.draft.Reset(s.clock())
}

// Load fetches the active cost objects offered in the selectors.
func (s *Session) Load(ctx context.Context) error {
	options, err := s.objects.ListActiveOptions(ctx)
	if err != nil {
		logger.Error(ctx, "failed to load cost objects", "error", err)
		s.notifier.Notify(ctx, MsgObjectsLoadFailed, SeverityError)
		return err
	}
	s.options = options
	return nil
}

// Objects returns the loaded cost-object options.
func (s *Session) Objects() []costobject.Option {
	return slices.Clone(s.options)
}

// Draft returns the draft being edited.
func (s *Session) Draft() *Draft {
	return s.draft
}

// State reports the submission pipeline state.
func (s *Session) State() SubmitState {
	return s.submitter.State()
}

// AddPosition appends a blank position.
func (s *Session) AddPosition() Position {
	return s.draft.AddPosition()
}

// UpdatePosition sets one field of a position from raw input.
func (s *Session) UpdatePosition(ctx context.Context, positionID string, field Field, raw string) (Position, error) {
	if field == FieldCostObject {
		if err := s.AssignPosition(ctx, positionID, raw); err != nil {
			return Position{}, err
		}
		p, _ := s.draft.Position(positionID)
		return p, nil
	}
	return s.draft.UpdatePosition(positionID, field, raw)
}

// RemovePosition deletes a position. Removing the last one only warns.
func (s *Session) RemovePosition(ctx context.Context, positionID string) error {
	err := s.draft.RemovePosition(positionID)
	if apperror.HasCode(err, apperror.CodeLastPosition) {
		s.notifier.Notify(ctx, MsgLastPosition, SeverityWarning)
	}
	return err
}

// SetAllocationMode switches allocation mode.
func (s *Session) SetAllocationMode(mode AllocationMode) error {
	return s.draft.SetAllocationMode(mode)
}

// SelectWholeObject sets the whole-invoice cost object. Empty clears it.
func (s *Session) SelectWholeObject(ctx context.Context, objectID string) error {
	if err := s.checkOffered(ctx, objectID); err != nil {
		return err
	}
	s.draft.SetWholeObject(objectID)
	return nil
}

// AssignPosition sets a position's own cost object. Empty clears it.
func (s *Session) AssignPosition(ctx context.Context, positionID, objectID string) error {
	if err := s.checkOffered(ctx, objectID); err != nil {
		return err
	}
	return s.draft.AssignPosition(positionID, objectID)
}

// AllocationRow is one line of the per-line allocation view.
type AllocationRow struct {
	PositionID       string `json:"positionId"`
	Label            string `json:"label"`
	LineTotal        string `json:"lineTotal"`
	LineTotalDisplay string `json:"lineTotalDisplay"`
	CostObjectID     string `json:"costObjectId"`
}

// AllocationView is what the allocation section shows.
type AllocationView struct {
	Mode          AllocationMode      `json:"mode"`
	WholeObjectID string              `json:"wholeObjectId"`
	Options       []costobject.Option `json:"options"`
	// Rows is filled only in per-line mode
	Rows         []AllocationRow `json:"rows,omitempty"`
	Total        string          `json:"total"`
	TotalDisplay string          `json:"totalDisplay"`
}

// AllocationView renders the current allocation. It always reflects the
// latest position edits.
func (s *Session) AllocationView() AllocationView {
	alloc := s.draft.Allocation()
	total := s.draft.GrandTotal()

	view := AllocationView{
		Mode:          alloc.Mode,
		WholeObjectID: alloc.WholeObjectID,
		Options:       s.Objects(),
		Total:         total.StringFixed(2),
		TotalDisplay:  s.formatter.FormatCurrency(total, true),
	}

	if alloc.Mode == ModePerLine {
		for _, p := range s.draft.Positions() {
			lineTotal := p.LineTotal()
			view.Rows = append(view.Rows, AllocationRow{
				PositionID:       p.ID,
				Label:            p.Label(),
				LineTotal:        lineTotal.StringFixed(2),
				LineTotalDisplay: s.formatter.FormatCurrency(lineTotal, true),
				CostObjectID:     p.CostObjectID,
			})
		}
	}

	return view
}

// Submit validates and sends the draft. Every outcome is reported through the Notifier.
func (s *Session) Submit(ctx context.Context) (Created, error) {
	created, err := s.submitter.Submit(ctx, s.draft)
	if err != nil {
		msg := MsgSaveFailed
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Message != "" {
			msg = appErr.Message
		}
		if apperror.HasCode(err, apperror.CodeSubmissionInProgress) {
			msg = MsgSaveInProgress
		}
		s.notifier.Notify(ctx, msg, SeverityError)
		return Created{}, err
	}

	s.notifier.Notify(ctx, MsgSaved, SeveritySuccess)
	return created, nil
}

// checkOffered rejects objects that are not among the loaded options.
// Before the first Load every id is accepted.
func (s *Session) checkOffered(ctx context.Context, objectID string) error {
	if objectID == "" || s.options == nil {
		return nil
	}
	for _, o := range s.options {
		if o.ID == objectID {
			return nil
		}
	}
	s.notifier.Notify(ctx, MsgUnknownObject, SeverityError)
	return apperror.NewBusinessRule(apperror.CodeObjectArchived, MsgUnknownObject).
		WithDetail("costObjectId", objectID)
}

var (
	_ Page    = (*Session)(nil)
	_ Enterer = (*Session)(nil)
	_ Leaver  = (*Session)(nil)
)
