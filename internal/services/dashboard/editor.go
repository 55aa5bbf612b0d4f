package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/interfaces"
	"github.com/edforrester/folio/internal/models"
)

// EditKind identifies which write endpoint an edit commits to.
type EditKind string

const (
	EditRowField     EditKind = "row_field"     // one holding's field
	EditTickerValue  EditKind = "ticker_value"  // aggregate value, server redistributes
	EditTickerPrice  EditKind = "ticker_price"  // unit price for all holdings of a ticker
	EditTickerTarget EditKind = "ticker_target" // target weight for all holdings of a ticker
	EditCashTarget   EditKind = "cash_target"   // portfolio-wide cash target
)

// RowField is an editable per-holding field.
type RowField string

const (
	RowFieldCurrentValue RowField = "current_value"
	RowFieldTargetWeight RowField = "target_weight"
)

// EditTarget names the cell under edit.
type EditTarget struct {
	Kind    EditKind
	Ticker  string
	Account string
	Owner   string
	Field   RowField // row-field edits only
}

// NoticeKind distinguishes validation notices from transport/server errors.
type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeError      NoticeKind = "error"
)

// Notice is a user-visible, blocking message.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// NotifyFunc surfaces a notice to the user.
type NotifyFunc func(Notice)

// ReloadFunc triggers a full pipeline reload after a successful commit.
type ReloadFunc func(ctx context.Context) error

// CommitResult reports how a confirm or blur ended.
type CommitResult struct {
	// Committed is true when the write succeeded and a reload was triggered.
	Committed bool
	// Restored carries the pre-edit formatted value to put back in the cell
	// whenever Committed is false.
	Restored string
}

type editSession struct {
	id       string
	target   EditTarget
	original string
}

// Controller is the inline-edit state machine. It is Idle or Editing exactly
// one target; a single lock covers every edit kind. A committed value is
// never patched locally — the reload's snapshot is the only source of truth.
type Controller struct {
	client interfaces.RebalanceClient
	logger *common.Logger
	reload ReloadFunc
	notify NotifyFunc

	mu      sync.Mutex
	session *editSession
}

// NewController creates an edit controller.
func NewController(client interfaces.RebalanceClient, logger *common.Logger, reload ReloadFunc, notify NotifyFunc) *Controller {
	if notify == nil {
		notify = func(Notice) {}
	}
	return &Controller{
		client: client,
		logger: logger,
		reload: reload,
		notify: notify,
	}
}

// Begin moves Idle → Editing. A second activation while Editing is a no-op
// returning false; the open edit is untouched.
func (c *Controller) Begin(target EditTarget, originalValue string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return false
	}
	c.session = &editSession{
		id:       uuid.NewString(),
		target:   target,
		original: originalValue,
	}
	c.logger.Debug().
		Str("edit", c.session.id).
		Str("kind", string(target.Kind)).
		Str("ticker", target.Ticker).
		Msg("Edit started")
	return true
}

// Editing reports whether an edit is open.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// ActiveTarget returns the target currently under edit.
func (c *Controller) ActiveTarget() (EditTarget, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return EditTarget{}, false
	}
	return c.session.target, true
}

// Cancel moves Editing → Idle with no network effect and returns the
// original formatted value to restore.
func (c *Controller) Cancel() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return "", false
	}
	original := c.session.original
	c.logger.Debug().Str("edit", c.session.id).Msg("Edit cancelled")
	c.session = nil
	return original, true
}

// Confirm commits the raw input for the open edit:
//  1. parse failure → validation notice, restore original, no request
//  2. write request for the edit target; the cell is not updated while pending
//  3. success → full pipeline reload
//  4. failure → error notice, restore original
//
// Either way the controller returns to Idle.
func (c *Controller) Confirm(ctx context.Context, raw string) CommitResult {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return CommitResult{}
	}

	value, err := ParseEditValue(raw)
	if err != nil {
		c.notify(Notice{Kind: NoticeValidation, Message: fmt.Sprintf("'%s' is not a number", strings.TrimSpace(raw))})
		return CommitResult{Restored: session.original}
	}

	if session.target.Kind == EditCashTarget && (value < 0 || value > 100) {
		c.notify(Notice{Kind: NoticeValidation, Message: fmt.Sprintf("cash target must be between 0 and 100, got %g", value)})
		return CommitResult{Restored: session.original}
	}

	if err := c.send(ctx, session.target, value); err != nil {
		c.logger.Warn().Err(err).Str("edit", session.id).Msg("Edit commit failed")
		c.notify(Notice{Kind: NoticeError, Message: err.Error()})
		return CommitResult{Restored: session.original}
	}

	c.logger.Info().
		Str("edit", session.id).
		Str("kind", string(session.target.Kind)).
		Float64("value", value).
		Msg("Edit committed")

	if err := c.reload(ctx); err != nil {
		c.logger.Error().Err(err).Str("edit", session.id).Msg("Reload after commit failed")
	}
	return CommitResult{Committed: true}
}

// Blur applies the same commit algorithm as Confirm; loss of focus and an
// explicit confirm are equivalent.
func (c *Controller) Blur(ctx context.Context, raw string) CommitResult {
	return c.Confirm(ctx, raw)
}

func (c *Controller) send(ctx context.Context, target EditTarget, value float64) error {
	switch target.Kind {
	case EditRowField:
		return c.client.UpdateHolding(ctx, models.UpdateHoldingRequest{
			Ticker:  target.Ticker,
			Account: target.Account,
			Owner:   target.Owner,
			Updates: map[string]float64{string(target.Field): value},
		})
	case EditTickerValue:
		return c.client.UpdateTickerValue(ctx, models.UpdateTickerValueRequest{
			Ticker:   target.Ticker,
			NewValue: value,
		})
	case EditTickerPrice:
		return c.client.UpdateTickerPrice(ctx, models.UpdateTickerPriceRequest{
			Ticker:   target.Ticker,
			NewPrice: value,
		})
	case EditTickerTarget:
		return c.client.UpdateTickerTarget(ctx, models.UpdateTickerTargetRequest{
			Ticker:    target.Ticker,
			NewTarget: value,
		})
	case EditCashTarget:
		return c.client.UpdateCashTarget(ctx, models.UpdateCashTargetRequest{
			TargetPct: value,
		})
	default:
		return fmt.Errorf("unknown edit kind '%s'", target.Kind)
	}
}

// ParseEditValue parses user input as a number, tolerating the formatting the
// dashboard itself emits: currency symbol, thousands separators, a trailing
// percent sign, and surrounding whitespace.
func ParseEditValue(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", raw)
	}
	return value, nil
}
