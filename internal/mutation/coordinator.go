// Package mutation coordinates optimistic deletes of submissions.
//
// Each delete is an explicit state machine:
//
//	Idle ──confirm──▶ Pending ──remote ok──▶ Committed
//	                     └────remote fail──▶ RolledBack
//
// On entering Pending the submission is removed from the local store before
// the remote call is issued. On RolledBack the exact removed entry is put
// back at its original position. An id stays "in flight" from the moment it
// is accepted until the remote call resolves; a second delete for the same id
// in that window is rejected, not queued. Deletes of different ids are
// independent of each other.
package mutation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/store"
	"github.com/tbourn/contact-dashboard/internal/webhook"
)

// User-facing notices.
const (
	MsgMissingID    = "Missing record id!"
	MsgDeleted      = "Record Deleted Successfully!"
	MsgNetwork      = "Network error during delete!"
	MsgConfirm      = "Delete this record? This cannot be undone!"
	MsgDeleteFailed = webhook.MsgDeleteFailed
)

// DefaultNoticeTTL is how long the success notice stays visible.
const DefaultNoticeTTL = 2500 * time.Millisecond

var (
	// ErrMissingID rejects a delete without an id.
	ErrMissingID = errors.New("missing record id")
	// ErrDuplicate rejects a delete for an id that is already in flight.
	ErrDuplicate = errors.New("delete already in flight")
	// ErrDiscarded reports a remote response that arrived after the store
	// was closed and was therefore ignored.
	ErrDiscarded = errors.New("store closed; response discarded")
)

// State of a delete intent.
type State int

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Intent is the outcome of one Delete call.
type Intent struct {
	ID     string
	State  State
	Notice string
	Err    error
}

// FailureError is returned when the remote delete failed and the local
// removal was rolled back. Message is what the operator should see.
type FailureError struct {
	ID      string
	Message string
	Network bool
	Err     error
}

func (e *FailureError) Error() string { return e.Message }
func (e *FailureError) Unwrap() error { return e.Err }

// Store is the local list the coordinator mutates optimistically.
type Store interface {
	Remove(id string) (store.Removal, bool)
	Restore(r store.Removal)
	Settle(id string)
	Closed() bool
}

// Remote performs the authoritative delete.
type Remote interface {
	DeleteSubmission(ctx context.Context, id string) error
}

// Confirmer gates a delete before anything is changed.
type Confirmer interface {
	Confirm(ctx context.Context, id string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, id string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, id string) bool { return f(ctx, id) }

// Confirmed always approves.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// Declined always refuses.
var Declined Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })

// AuditEntry describes how an intent ended.
type AuditEntry struct {
	SubmissionID string
	Actor        string
	Outcome      string
	Message      string
	RequestedAt  time.Time
	ResolvedAt   time.Time
}

// Auditor receives one entry per finished intent. Errors are the auditor's
// to report; they never change the delete outcome.
type Auditor interface {
	RecordDelete(ctx context.Context, e AuditEntry)
}

var deleteOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "subdash_delete_outcomes_total",
		Help: "Delete intents by final outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(deleteOutcomes)
}

type actorKey struct{}

// WithActor tags ctx with the operator's user id for the audit trail.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey{}).(string)
	return s
}

// ----------------------------------------------------------------------------
// Options

type Option func(*Coordinator)

// WithClock sets the clock used for timestamps and notice expiry.
func WithClock(c clockwork.Clock) Option {
	return func(co *Coordinator) {
		if c != nil {
			co.clock = c
		}
	}
}

// WithNoticeTTL sets how long the success notice is shown.
func WithNoticeTTL(d time.Duration) Option {
	return func(co *Coordinator) {
		if d > 0 {
			co.noticeTTL = d
		}
	}
}

// WithAuditor sets the audit sink.
func WithAuditor(a Auditor) Option {
	return func(co *Coordinator) { co.audit = a }
}

// ----------------------------------------------------------------------------
// Coordinator

// Coordinator runs delete intents against a Store and a Remote. It is safe
// for concurrent use.
type Coordinator struct {
	store     Store
	remote    Remote
	clock     clockwork.Clock
	noticeTTL time.Duration
	audit     Auditor

	mu          sync.Mutex
	inFlight    map[string]struct{}
	notice      string
	noticeSeq   uint64
	noticeTimer clockwork.Timer
}

// New returns a Coordinator with a real clock and DefaultNoticeTTL.
func New(s Store, r Remote, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     s,
		remote:    r,
		clock:     clockwork.NewRealClock(),
		noticeTTL: DefaultNoticeTTL,
		inFlight:  make(map[string]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Delete runs one intent for id. The returned error is nil for Committed and
// for a declined confirmation (Idle); otherwise it is ErrMissingID,
// ErrDuplicate, ErrDiscarded or a *FailureError.
//
// The remote call is not cancelled when ctx is: the response is always
// awaited so the local state can be reconciled.
func (c *Coordinator) Delete(ctx context.Context, id string, confirm Confirmer) (Intent, error) {
	requested := c.clock.Now()
	actor := actorFrom(ctx)
	finish := func(in Intent, outcome string) (Intent, error) {
		deleteOutcomes.WithLabelValues(outcome).Inc()
		if c.audit != nil {
			c.audit.RecordDelete(context.WithoutCancel(ctx), AuditEntry{
				SubmissionID: id,
				Actor:        actor,
				Outcome:      outcome,
				Message:      in.Notice,
				RequestedAt:  requested,
				ResolvedAt:   c.clock.Now(),
			})
		}
		return in, in.Err
	}

	if id == "" {
		return finish(Intent{State: Idle, Notice: MsgMissingID, Err: ErrMissingID}, domain.OutcomeRejected)
	}
	if !c.reserve(id) {
		return finish(Intent{ID: id, State: Idle, Notice: MsgMissingID, Err: ErrDuplicate}, domain.OutcomeRejected)
	}

	if confirm == nil || !confirm.Confirm(ctx, id) {
		c.release(id)
		return finish(Intent{ID: id, State: Idle}, domain.OutcomeDeclined)
	}

	// Idle → Pending: remove locally before the remote call.
	removal, removed := c.store.Remove(id)
	err := c.remote.DeleteSubmission(context.WithoutCancel(ctx), id)

	var (
		in      Intent
		outcome string
	)
	switch {
	case c.store.Closed():
		in, outcome = Intent{ID: id, State: Pending, Err: ErrDiscarded}, domain.OutcomeDiscarded
	case err == nil:
		c.setNotice(MsgDeleted)
		in, outcome = Intent{ID: id, State: Committed, Notice: MsgDeleted}, domain.OutcomeCommitted
	default:
		if removed {
			c.store.Restore(removal)
		}
		fe := failure(id, err)
		in, outcome = Intent{ID: id, State: RolledBack, Notice: fe.Message, Err: fe}, domain.OutcomeRolledBack
	}

	// The id stays in flight until the local list is reconciled.
	c.store.Settle(id)
	c.release(id)
	return finish(in, outcome)
}

func failure(id string, err error) *FailureError {
	fe := &FailureError{ID: id, Err: err, Message: MsgDeleteFailed}
	var se *webhook.StatusError
	switch {
	case errors.Is(err, webhook.ErrNetwork):
		fe.Network = true
		fe.Message = MsgNetwork
	case errors.As(err, &se) && se.Message != "":
		fe.Message = se.Message
	}
	return fe
}

func (c *Coordinator) reserve(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[id]; busy {
		return false
	}
	c.inFlight[id] = struct{}{}
	return true
}

func (c *Coordinator) release(id string) {
	c.mu.Lock()
	delete(c.inFlight, id)
	c.mu.Unlock()
}

// InFlight returns the ids with a pending remote delete, sorted.
func (c *Coordinator) InFlight() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.inFlight))
	for id := range c.inFlight {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsInFlight reports whether id has a pending remote delete.
func (c *Coordinator) IsInFlight(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[id]
	return ok
}

// Notice returns the current transient success notice, or "".
func (c *Coordinator) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

func (c *Coordinator) setNotice(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noticeSeq++
	seq := c.noticeSeq
	c.notice = msg
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.noticeTimer = c.clock.AfterFunc(c.noticeTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.noticeSeq == seq {
			c.notice = ""
		}
	})
}

// Close stops the notice timer.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	c.notice = ""
}
