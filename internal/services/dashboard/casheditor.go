package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/interfaces"
	"github.com/edforrester/folio/internal/models"
)

// DefaultCashDebounce is the delay between a cash-balance input event and the
// commit. The field fires on both change and blur for the same input; the
// debounce collapses the pair into one request.
const DefaultCashDebounce = 300 * time.Millisecond

// pendingCashEdit is one account's scheduled commit.
type pendingCashEdit struct {
	amount float64
	timer  *time.Timer
}

// CashBalanceEditor commits direct cash-balance edits. Change and blur events
// are debounced per account; editing one account never drops another
// account's scheduled commit. An explicit confirm bypasses the debounce and
// commits immediately.
type CashBalanceEditor struct {
	client interfaces.RebalanceClient
	logger *common.Logger
	reload ReloadFunc
	notify NotifyFunc
	delay  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCashEdit
}

// NewCashBalanceEditor creates a cash-balance editor with the default debounce.
func NewCashBalanceEditor(client interfaces.RebalanceClient, logger *common.Logger, reload ReloadFunc, notify NotifyFunc) *CashBalanceEditor {
	if notify == nil {
		notify = func(Notice) {}
	}
	return &CashBalanceEditor{
		client:  client,
		logger:  logger,
		reload:  reload,
		notify:  notify,
		delay:   DefaultCashDebounce,
		pending: make(map[string]*pendingCashEdit),
	}
}

// SetDebounce overrides the debounce delay.
func (e *CashBalanceEditor) SetDebounce(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = d
}

// Change handles a change event on an account's cash-balance field.
func (e *CashBalanceEditor) Change(account, raw string) {
	e.schedule(account, raw)
}

// Blur handles a focus-loss event on an account's cash-balance field.
func (e *CashBalanceEditor) Blur(account, raw string) {
	e.schedule(account, raw)
}

func (e *CashBalanceEditor) schedule(account, raw string) {
	amount, err := ParseEditValue(raw)
	if err != nil {
		e.notify(Notice{Kind: NoticeValidation, Message: fmt.Sprintf("'%s' is not a number", strings.TrimSpace(raw))})
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.pending[account]; ok {
		p.timer.Stop()
		p.amount = amount
		p.timer = e.startTimer(account)
		return
	}
	e.pending[account] = &pendingCashEdit{
		amount: amount,
		timer:  e.startTimer(account),
	}
}

// startTimer is called with e.mu held.
func (e *CashBalanceEditor) startTimer(account string) *time.Timer {
	return time.AfterFunc(e.delay, func() {
		e.flushAccount(context.Background(), account)
	})
}

// Confirm commits immediately, cancelling any pending debounce for the
// account. It reports the commit outcome so callers can fail loudly.
func (e *CashBalanceEditor) Confirm(ctx context.Context, account, raw string) error {
	amount, err := ParseEditValue(raw)
	if err != nil {
		e.notify(Notice{Kind: NoticeValidation, Message: fmt.Sprintf("'%s' is not a number", strings.TrimSpace(raw))})
		return err
	}

	e.mu.Lock()
	if p, ok := e.pending[account]; ok {
		p.timer.Stop()
		delete(e.pending, account)
	}
	e.mu.Unlock()

	return e.commit(ctx, account, amount)
}

// Flush commits every pending edit now.
func (e *CashBalanceEditor) Flush(ctx context.Context) {
	e.mu.Lock()
	taken := e.pending
	e.pending = make(map[string]*pendingCashEdit)
	for _, p := range taken {
		p.timer.Stop()
	}
	e.mu.Unlock()

	for account, p := range taken {
		_ = e.commit(ctx, account, p.amount)
	}
}

func (e *CashBalanceEditor) flushAccount(ctx context.Context, account string) {
	e.mu.Lock()
	p, ok := e.pending[account]
	if !ok {
		e.mu.Unlock()
		return
	}
	delete(e.pending, account)
	p.timer.Stop()
	e.mu.Unlock()

	_ = e.commit(ctx, account, p.amount)
}

func (e *CashBalanceEditor) commit(ctx context.Context, account string, amount float64) error {
	err := e.client.UpdateCash(ctx, models.UpdateCashRequest{Account: account, Amount: amount})
	if err != nil {
		e.logger.Warn().Err(err).Str("account", account).Msg("Cash update failed")
		e.notify(Notice{Kind: NoticeError, Message: err.Error()})
		return err
	}

	e.logger.Info().Str("account", account).Float64("amount", amount).Msg("Cash balance updated")

	if err := e.reload(ctx); err != nil {
		e.logger.Error().Err(err).Msg("Reload after cash update failed")
	}
	return nil
}
