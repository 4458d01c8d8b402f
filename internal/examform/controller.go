// Package examform is the exam registration dialog: a two-field form, the
// dialog mode, the question picker and the create/update round trip.
// It is UI-agnostic; hosts drive it through Open, the setters and Submit,
// and receive results through Alerter, Loader and Hooks.
package examform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/picklist"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submission has not finished.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrViewOnly is returned when the dialog is open for viewing.
	ErrViewOnly = errors.New("dialog is view only")

	// ErrDialogClosed is returned by Submit when the dialog is not open.
	ErrDialogClosed = errors.New("dialog is closed")
)

// ValidationError carries the field messages of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid form: %d field(s)", len(e.Fields))
}

// PageEvent is a pagination event from the drop-down: First is the index
// reported by the widget, Rows the page size.
type PageEvent struct {
	First int
	Rows  int
}

// dropdownSortField is the column the paginated drop-down is ordered by.
const dropdownSortField = "description"

// Deps are the collaborators of a Controller.
type Deps struct {
	Alerts    Alerter
	Loader    Loader
	Questions QuestionLister
	Exams     ExamStore
	Hooks     Hooks
}

// Controller is the state of one exam dialog. It is safe for concurrent use.
// The lock is never held while a collaborator is called.
type Controller struct {
	alerts    Alerter
	loader    Loader
	questions QuestionLister
	exams     ExamStore
	hooks     Hooks
	log       zerolog.Logger

	mu         sync.Mutex
	mode       Mode
	viewOnly   bool
	working    *model.Exam
	form       Form
	picker     picklist.Picklist
	filter     model.QuestionFilter
	total      int
	submitting bool
	refreshSeq uint64
	// generation counts Open calls; a submit finishing under an older
	// generation leaves the dialog alone.
	generation uint64
}

// New creates a closed dialog with an empty working record.
func New(deps Deps, log zerolog.Logger) *Controller {
	if deps.Loader == nil {
		deps.Loader = noopLoader{}
	}
	c := &Controller{
		alerts:    deps.Alerts,
		loader:    deps.Loader,
		questions: deps.Questions,
		exams:     deps.Exams,
		hooks:     deps.Hooks,
		log:       log.With().Str("component", "exam_form").Logger(),
		working:   &model.Exam{},
	}
	c.form = formFrom(c.working)
	return c
}

// Init prepares the form and loads the first drop-down page.
func (c *Controller) Init(ctx context.Context) error {
	c.InitForm()
	return c.RefreshQuestions(ctx, nil)
}

// ─── Form ───────────────────────────────────────────────────────────────────

// InitForm rebuilds the field set from the working record.
func (c *Controller) InitForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = formFrom(c.working)
}

// Form returns the current field values.
func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.form
	if f.ApprovalPercentage != nil {
		p := *f.ApprovalPercentage
		f.ApprovalPercentage = &p
	}
	return f
}

// SetTitle updates the title field.
func (c *Controller) SetTitle(title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewOnly {
		return ErrViewOnly
	}
	c.form.Title = title
	return nil
}

// SetApprovalPercentage updates the approval percentage field. Nil clears it.
func (c *Controller) SetApprovalPercentage(p *float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewOnly {
		return ErrViewOnly
	}
	if p != nil {
		v := *p
		p = &v
	}
	c.form.ApprovalPercentage = p
	return nil
}

// Validate validates the current field values.
func (c *Controller) Validate() ValidationResult {
	return Validate(c.Form())
}

// SetViewOnly is the host input. Changing it re-initializes the form.
func (c *Controller) SetViewOnly(viewOnly bool) {
	c.mu.Lock()
	c.viewOnly = viewOnly
	c.mu.Unlock()
	c.InitForm()
}

// ViewOnly reports the stored view-only flag.
func (c *Controller) ViewOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewOnly
}

// ─── Dialog ─────────────────────────────────────────────────────────────────

// Open shows the dialog. A record with viewOnly=false edits it, viewOnly=true
// shows it read-only and a nil record starts a new exam. Edit and create
// refresh the drop-down; a refresh failure is returned but the dialog stays open.
func (c *Controller) Open(ctx context.Context, record *model.Exam, viewOnly bool) error {
	c.mu.Lock()
	c.generation++
	refresh := true
	switch {
	case record != nil && !viewOnly:
		c.mode = ModeEditing
		c.working = record.Clone()
		c.picker.SetTarget(c.working.Questions)
	case viewOnly:
		c.mode = ModeViewing
		c.working = record.Clone()
		c.picker.SetTarget(c.working.Questions)
		refresh = false
	default:
		c.mode = ModeCreating
		c.working = &model.Exam{}
		c.picker.ClearTarget()
	}
	c.viewOnly = viewOnly
	c.form = formFrom(c.working)
	mode := c.mode
	c.mu.Unlock()

	c.log.Debug().Str("mode", mode.String()).Msg("Dialog opened")

	if !refresh {
		return nil
	}
	return c.RefreshQuestions(ctx, nil)
}

// Cancel closes the dialog without saving.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeClosed
}

// Mode returns the dialog state.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Visible reports whether the dialog is open.
func (c *Controller) Visible() bool {
	return c.Mode() != ModeClosed
}

// Header returns the dialog title for the current mode.
func (c *Controller) Header() string {
	return c.Mode().header()
}

// Working returns a copy of the working record.
func (c *Controller) Working() model.Exam {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.working.Clone()
}

// ─── Question picker ────────────────────────────────────────────────────────

// Source returns the available questions of the current drop-down page.
func (c *Controller) Source() []model.SelectItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.picker.Source()
}

// Target returns the questions selected for the exam.
func (c *Controller) Target() []model.SelectItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.picker.Target()
}

// MoveToTarget selects questions by value and de-duplicates the target list.
func (c *Controller) MoveToTarget(values ...int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.picker.MoveToTarget(values...)
}

// MoveToSource deselects questions by value and de-duplicates the source list.
func (c *Controller) MoveToSource(values ...int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.picker.MoveToSource(values...)
}

// MoveAllToTarget selects every question of the current page.
func (c *Controller) MoveAllToTarget() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.picker.MoveAllToTarget()
}

// MoveAllToSource deselects every question.
func (c *Controller) MoveAllToSource() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.picker.MoveAllToSource()
}

// SetFilter replaces the drop-down filter used by the next refresh.
func (c *Controller) SetFilter(filter model.QuestionFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

// TotalQuestions is the total element count of the last applied page.
func (c *Controller) TotalQuestions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// RefreshQuestions fetches one drop-down page and replaces the source list.
// Without an event it asks for page 0 of size 20. With one, the event sets
// page and size and the page is sorted by description, descending.
// A response that arrives after a newer refresh was issued is dropped.
func (c *Controller) RefreshQuestions(ctx context.Context, ev *PageEvent) error {
	req := model.NewPageRequest(0, model.DefaultPageSize)
	if ev != nil {
		if ev.Rows > 0 {
			req.Size = ev.Rows
		}
		if ev.First > 0 {
			req.Page = ev.First
		}
		req.Sort = &model.Sort{Field: dropdownSortField, Direction: model.SortDesc}
	}

	c.mu.Lock()
	c.refreshSeq++
	seq := c.refreshSeq
	filter := c.filter
	c.mu.Unlock()

	page, err := c.questions.ListForDropdown(ctx, filter, req)
	if err != nil {
		c.log.Error().Err(err).Int("page", req.Page).Int("size", req.Size).Msg("Failed to load question drop-down")
		return fmt.Errorf("list questions: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.refreshSeq {
		c.log.Debug().Uint64("seq", seq).Uint64("latest", c.refreshSeq).Msg("Discarding stale drop-down page")
		return nil
	}
	c.picker.SetSource(page.Content)
	c.total = page.TotalElements
	return nil
}

// ─── Submit ─────────────────────────────────────────────────────────────────

// Submit validates the form and creates or updates the working record.
// An invalid form shows an alert and returns *ValidationError without any
// network call. Persistence failures show a generic alert and are returned
// wrapped; they are never retried. If the dialog was reopened while the call
// was in flight, the result is still alerted and reported to OnSaved but the
// reopened dialog keeps its state.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.mode == ModeClosed:
		c.mu.Unlock()
		return ErrDialogClosed
	case c.mode == ModeViewing:
		c.mu.Unlock()
		return ErrViewOnly
	case c.submitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	}

	res := Validate(c.form)
	if !res.Valid {
		c.mu.Unlock()
		c.alerts.Alert(AlertError, titleValidation, msgValidation)
		return &ValidationError{Fields: res.Fields}
	}

	if c.form.Title != "" {
		c.working.Title = c.form.Title
	}
	if c.form.ApprovalPercentage != nil {
		p := *c.form.ApprovalPercentage
		c.working.ApprovalPercentage = &p
	}
	c.working.Questions = c.picker.Target()
	exam := c.working.Clone()
	c.submitting = true
	gen := c.generation
	c.mu.Unlock()

	creating := exam.IsNew()

	c.loader.Activate()
	var err error
	if creating {
		err = c.exams.Create(ctx, exam)
	} else {
		err = c.exams.Update(ctx, exam)
	}
	c.loader.Deactivate()

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.mu.Unlock()
		if creating {
			c.log.Error().Err(err).Msg("Failed to create exam")
			c.alerts.Alert(AlertError, titleFailure, msgCreateFailed)
			return fmt.Errorf("create exam: %w", err)
		}
		c.log.Error().Err(err).Int64("exam_id", *exam.ID).Msg("Failed to update exam")
		c.alerts.Alert(AlertError, titleFailure, msgUpdateFailed)
		return fmt.Errorf("update exam: %w", err)
	}

	if gen == c.generation {
		c.working = exam.Clone()
		c.form = Form{}
		c.mode = ModeClosed
	} else {
		c.log.Debug().Uint64("generation", gen).Msg("Dialog reopened during submit, keeping its state")
	}
	onSaved := c.hooks.OnSaved
	c.mu.Unlock()

	msg := msgUpdated
	if creating {
		msg = msgCreated
	}
	c.alerts.Alert(AlertSuccess, titleSuccess, msg)

	if onSaved != nil {
		onSaved(*exam)
	}
	return nil
}
