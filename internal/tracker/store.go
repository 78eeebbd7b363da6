// Package tracker owns the live expense tracker state.
//
// A Store is constructed with defaults, hydrated from a kv.Store by
// Initialize, and then mutated through its operations. Every mutation
// writes the full snapshot through to the kv store before returning.
// Decoding and persistence failures are logged and never returned: the
// in-memory snapshot stays authoritative for the rest of the process.
//
// The store serializes its operations with a mutex, so two mutations
// never overlap. Nothing guards against another process writing the
// same kv store; the last writer wins.
//
// Change notifications are queued under the lock and delivered by a
// single publisher goroutine, in revision order, so a slow Notifier never
// holds up readers or writers. Close drains the queue.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/kv"
	"expensetracker/internal/log"
)

// Clock returns the current instant.
type Clock func() time.Time

// Change describes a mutation that has been persisted.
type Change struct {
	Revision  uint64
	Operation string
	At        time.Time
}

// Notifier is told about every persisted mutation.
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

// changeBacklog bounds the queued notifications. Changes past it are
// dropped with a warning.
const changeBacklog = 64

type pendingChange struct {
	ctx    context.Context
	change Change
}

type Option func(*Store)

func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l.WithComponent(log.ComponentTracker) }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// LoadReport describes what Initialize found in the kv store.
type LoadReport struct {
	Loaded     []string // keys present and decoded
	Missing    []string // keys absent, left at defaults
	Backfilled int      // categories added to the budget set
	Reset      bool     // the whole snapshot was discarded
	Err        error    // why it was discarded
}

type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	log      *log.Logger
	now      Clock
	notifier Notifier

	changes   chan pendingChange
	published chan struct{}
	closeOnce sync.Once

	state       core.Snapshot
	lastID      int64
	revision    uint64
	lastPersist error
}

// New returns a store holding the construction defaults. Call
// Initialize to hydrate it.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    store,
		log:   log.Discard(),
		now:   time.Now,
		state: core.NewSnapshot(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.notifier != nil {
		s.changes = make(chan pendingChange, changeBacklog)
		s.published = make(chan struct{})
		go s.publish(s.changes)
	}
	return s
}

// Close waits until every queued change notification has been handed to
// the Notifier. Mutations after Close are still persisted but no longer
// announced. It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		ch := s.changes
		s.changes = nil
		s.mu.Unlock()
		if ch != nil {
			close(ch)
			<-s.published
		}
	})
}

func (s *Store) publish(changes <-chan pendingChange) {
	defer close(s.published)
	for pc := range changes {
		if err := s.notifier.Notify(pc.ctx, pc.change); err != nil {
			s.log.WarnContext(pc.ctx, "Failed to publish change notification",
				log.FieldOperation, log.OpNotify, log.FieldRevision, pc.change.Revision, log.FieldError, err)
		}
	}
}

// Initialize loads the four snapshot fields independently. An absent key
// leaves its field at the default. If any key fails to decode the whole
// snapshot is reset to defaults and the defaults are persisted. If the
// kv store itself cannot be read the defaults are used for this session
// but the durable copy is left alone.
func (s *Store) Initialize(ctx context.Context) LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := core.NewSnapshot()
	report := LoadReport{}

	err := s.load(ctx, &next, &report)
	var readErr *readError
	switch {
	case errors.As(err, &readErr):
		s.log.ErrorContext(ctx, "Failed reading stored snapshot, using defaults",
			log.FieldOperation, log.OpInitialize, log.FieldKey, readErr.key, log.FieldError, err)
		s.state = core.NewSnapshot()
		s.revision++
		return LoadReport{Reset: true, Err: err}
	case err != nil:
		s.log.ErrorContext(ctx, "Stored snapshot is corrupt, resetting to defaults",
			log.FieldOperation, log.OpInitialize, log.FieldError, err)
		s.state = core.NewSnapshot()
		s.revision++
		s.persistLocked(ctx, log.OpReset)
		return LoadReport{Reset: true, Err: err}
	}

	report.Backfilled = next.CategoryBudgets.Backfill()
	s.state = next
	s.lastID = maxID(next.Expenses)
	s.revision++

	s.log.InfoContext(ctx, "Snapshot loaded",
		log.FieldOperation, log.OpInitialize,
		log.FieldCount, len(next.Expenses),
		"loaded_keys", report.Loaded,
		"missing_keys", report.Missing,
		"backfilled", report.Backfilled)
	return report
}

type readError struct {
	key string
	err error
}

func (e *readError) Error() string { return fmt.Sprintf("read %s: %v", e.key, e.err) }
func (e *readError) Unwrap() error { return e.err }

func (s *Store) load(ctx context.Context, next *core.Snapshot, report *LoadReport) error {
	for _, key := range kv.Keys {
		raw, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return &readError{key: key, err: err}
		}
		if !ok {
			report.Missing = append(report.Missing, key)
			continue
		}
		if err := decodeInto(next, key, raw); err != nil {
			return err
		}
		report.Loaded = append(report.Loaded, key)
	}
	return nil
}

func decodeInto(next *core.Snapshot, key, raw string) error {
	switch key {
	case kv.KeyCurrentUser:
		u, err := decodeUser(raw)
		if err != nil {
			return err
		}
		next.CurrentUser = u
	case kv.KeyExpenses:
		e, err := decodeExpenses(raw)
		if err != nil {
			return err
		}
		next.Expenses = e
	case kv.KeyCategoryBudgets:
		b, err := decodeBudgets(raw)
		if err != nil {
			return err
		}
		next.CategoryBudgets = b
	case kv.KeyTotalBudget:
		d, err := decodeTotal(raw)
		if err != nil {
			return err
		}
		next.TotalBudget = d
	}
	return nil
}

// Persist writes all four fields. Failures are logged and remembered in
// LastPersistError; they are never returned.
func (s *Store) Persist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(ctx, log.OpPersist)
}

func (s *Store) persistLocked(ctx context.Context, op string) {
	var errs []error
	for _, key := range kv.Keys {
		value, err := s.encode(key)
		if err == nil {
			err = s.kv.Set(ctx, key, value)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	s.lastPersist = errors.Join(errs...)
	if s.lastPersist != nil {
		s.log.ErrorContext(ctx, "Failed to persist snapshot",
			log.FieldOperation, op, log.FieldRevision, s.revision, log.FieldError, s.lastPersist)
		return
	}

	if s.changes == nil {
		return
	}
	pc := pendingChange{
		ctx:    context.WithoutCancel(ctx),
		change: Change{Revision: s.revision, Operation: op, At: s.now()},
	}
	select {
	case s.changes <- pc:
	default:
		s.log.WarnContext(ctx, "Change notification dropped, publisher is behind",
			log.FieldOperation, log.OpNotify, log.FieldRevision, s.revision)
	}
}

func (s *Store) encode(key string) (string, error) {
	switch key {
	case kv.KeyCurrentUser:
		return encodeUser(s.state.CurrentUser)
	case kv.KeyExpenses:
		return encodeExpenses(s.state.Expenses)
	case kv.KeyCategoryBudgets:
		return encodeBudgets(s.state.CategoryBudgets)
	case kv.KeyTotalBudget:
		return encodeTotal(s.state.TotalBudget), nil
	}
	return "", fmt.Errorf("unknown key %q", key)
}

// mutate runs fn under the lock, bumps the revision and persists.
func (s *Store) mutate(ctx context.Context, op string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.revision++
	s.persistLocked(ctx, op)
}

// SetUser replaces the current-user marker. A zero user clears it, the
// same way a stored zero user decodes.
func (s *Store) SetUser(ctx context.Context, u core.User) {
	s.mutate(ctx, log.OpLogin, func() {
		if u.IsZero() {
			s.state.CurrentUser = nil
			return
		}
		s.state.CurrentUser = &u
	})
}

// ClearUser logs out by wiping the whole snapshot back to defaults,
// expenses and budgets included. Use EndSession to only drop the user.
func (s *Store) ClearUser(ctx context.Context) {
	s.Reset(ctx)
}

// EndSession drops the user marker and keeps every expense and budget.
func (s *Store) EndSession(ctx context.Context) {
	s.mutate(ctx, log.OpLogout, func() {
		s.state.CurrentUser = nil
	})
}

// Reset erases all data and persists the empty defaults.
func (s *Store) Reset(ctx context.Context) {
	s.mutate(ctx, log.OpReset, func() {
		s.state = core.NewSnapshot()
	})
	s.log.InfoContext(ctx, "Tracker reset to defaults", log.FieldOperation, log.OpReset)
}

// nextID issues ids from the clock in milliseconds, bumped past the last
// issued or loaded id so two creations in the same instant never collide.
func (s *Store) nextID(at time.Time) int64 {
	id := at.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// AddExpense appends a new expense dated now. Only the title is
// validated; the amount is coerced and unknown categories are kept.
func (s *Store) AddExpense(ctx context.Context, d core.Draft) (core.Expense, core.Coerced, error) {
	if err := d.Validate(); err != nil {
		return core.Expense{}, core.Coerced{}, err
	}
	var (
		e core.Expense
		c core.Coerced
	)
	s.mutate(ctx, log.OpCreate, func() {
		at := s.now()
		e, c = core.NewExpense(s.nextID(at), d, at)
		s.state.Expenses = append(s.state.Expenses, e)
	})
	s.logCoerced(ctx, log.OpCreate, c)
	s.log.DebugContext(ctx, "Expense added",
		log.NewFields().WithExpense(e.ID, e.Title, e.Amount.String(), string(e.Category)).ToSlice()...)
	return e, c, nil
}

// ImportIfEmpty appends expenses exactly as given, dates and ids
// included, but only when no expense exists yet. Amounts are still
// clamped at zero. It reports whether anything was imported.
func (s *Store) ImportIfEmpty(ctx context.Context, expenses []core.Expense) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Expenses) > 0 || len(expenses) == 0 {
		return false
	}
	for _, e := range expenses {
		e.Amount = core.CoerceDecimal(e.Amount).Value
		s.state.Expenses = append(s.state.Expenses, e)
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	s.revision++
	s.persistLocked(ctx, log.OpImport)
	s.log.InfoContext(ctx, "Expenses imported", log.FieldOperation, log.OpImport, log.FieldCount, len(expenses))
	return true
}

// UpdateExpense merges p into the first expense with id and moves its
// date to now. A patch with an invalid title is rejected before anything
// is looked up. found is false when no expense has that id; nothing is
// written in either case.
func (s *Store) UpdateExpense(ctx context.Context, id int64, p core.Patch) (updated core.Expense, found bool, err error) {
	if err := p.Validate(); err != nil {
		return core.Expense{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.state.Expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.log.DebugContext(ctx, "Update skipped, expense not found",
			log.FieldOperation, log.OpUpdate, log.FieldExpenseID, id)
		return core.Expense{}, false, nil
	}

	out, c := s.state.Expenses[idx].Apply(p, s.now())
	s.state.Expenses[idx] = out
	s.revision++
	s.persistLocked(ctx, log.OpUpdate)
	s.logCoerced(ctx, log.OpUpdate, c)
	return out, true, nil
}

// DeleteExpense removes every expense with id and returns how many went.
// Nothing is written when none match.
func (s *Store) DeleteExpense(ctx context.Context, id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Expenses[:0:0]
	for _, e := range s.state.Expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(s.state.Expenses) - len(kept)
	if removed == 0 {
		s.log.DebugContext(ctx, "Delete skipped, expense not found",
			log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
		return 0
	}
	s.state.Expenses = kept
	s.revision++
	s.persistLocked(ctx, log.OpDelete)
	return removed
}

// SetCategoryBudget stores max(0, amount) for c. The category is not
// checked; an unknown key is kept but never aggregated.
func (s *Store) SetCategoryBudget(ctx context.Context, c core.Category, amount string) core.Coerced {
	coerced := core.CoerceAmount(amount)
	s.mutate(ctx, log.OpBudget, func() {
		s.state.CategoryBudgets[c] = coerced.Value
	})
	s.logCoerced(ctx, log.OpBudget, coerced)
	if !c.IsKnown() {
		s.log.WarnContext(ctx, "Budget stored for unknown category",
			log.FieldOperation, log.OpBudget, log.FieldCategory, string(c))
	}
	return coerced
}

// ReplaceCategoryBudgets swaps the whole budget set for b. Values are
// clamped at zero and missing known categories are backfilled, so keys
// that are not in b are gone afterwards.
func (s *Store) ReplaceCategoryBudgets(ctx context.Context, b core.BudgetSet) {
	next := make(core.BudgetSet, len(b))
	for c, amount := range b {
		next[c] = core.CoerceDecimal(amount).Value
	}
	next.Backfill()
	s.mutate(ctx, log.OpBudget, func() {
		s.state.CategoryBudgets = next
	})
	s.log.DebugContext(ctx, "Category budgets replaced",
		log.FieldOperation, log.OpBudget, log.FieldCount, len(next))
}

// SetTotalBudget stores max(0, amount) as the total budget. The total is
// never derived from category budgets here.
func (s *Store) SetTotalBudget(ctx context.Context, amount string) core.Coerced {
	coerced := core.CoerceAmount(amount)
	s.mutate(ctx, log.OpTotal, func() {
		s.state.TotalBudget = coerced.Value
	})
	s.logCoerced(ctx, log.OpTotal, coerced)
	return coerced
}

func (s *Store) logCoerced(ctx context.Context, op string, c core.Coerced) {
	if !c.Adjusted() {
		return
	}
	s.log.DebugContext(ctx, "Numeric input coerced",
		log.FieldOperation, op,
		log.FieldInput, c.Input,
		log.FieldAmount, c.Value.String(),
		"invalid", c.Invalid,
		"clamped", c.Clamped)
}

// Snapshot returns a deep copy of the live state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Revision increases with every mutation and every Initialize.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// LastPersistError is the outcome of the most recent persist.
func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPersist
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated()
}

func (s *Store) CurrentUser() (core.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentUser == nil {
		return core.User{}, false
	}
	return *s.state.CurrentUser, true
}

func (s *Store) CategoryTotals() core.CategoryTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.SumByCategory(s.state.Expenses)
}

func (s *Store) MonthlyTotals() map[string]core.CategoryTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.SumByMonth(s.state.Expenses)
}

func (s *Store) GrandTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.GrandTotal(s.state.Expenses)
}

func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.state.TotalBudget, s.state.Expenses)
}

func (s *Store) BudgetUsage() []core.BudgetUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Usage(s.state.CategoryBudgets, core.SumByCategory(s.state.Expenses))
}

// MonthlyOverviews lists every month oldest first with its total.
func (s *Store) MonthlyOverviews() []core.MonthOverview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Overviews(core.SumByMonth(s.state.Expenses))
}

func (s *Store) Trend() core.Trend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.BuildTrend(core.SumByMonth(s.state.Expenses))
}

// ExpensesByRecency lists expenses most recent first without reordering
// the stored sequence.
func (s *Store) ExpensesByRecency() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ByRecency(s.state.Expenses)
}

func maxID(expenses []core.Expense) int64 {
	var max int64
	for _, e := range expenses {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}
