package counter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/germanamz/transmitter/pkg/metrics"
)

// Default cadences.
const (
	DefaultTickInterval = time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultPollTimeout  = 2 * time.Second
)

// Options configures a Controller. Zero values fall back to the defaults.
type Options struct {
	TickInterval time.Duration // Local clock period.
	PollInterval time.Duration // Remote poll period in sync mode.
	PollTimeout  time.Duration // Upper bound for a single fetch.
	Clock        clockwork.Clock
	Logger       *slog.Logger
	Recorder     metrics.Recorder
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = DefaultPollTimeout
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	return o
}

type timerKind int

const (
	timerTick timerKind = iota
	timerPoll
)

func (k timerKind) String() string {
	if k == timerPoll {
		return "poll"
	}
	return "tick"
}

// timerHandle is the single repeating timer the controller may own.
type timerHandle struct {
	id     uint64
	kind   timerKind
	ticker clockwork.Ticker
	stop   chan struct{}
}

type commandOp int

const (
	opStart commandOp = iota
	opStop
	opReset
	opSetMode
)

func (op commandOp) String() string {
	switch op {
	case opStart:
		return "start"
	case opStop:
		return "stop"
	case opReset:
		return "reset"
	default:
		return "set-mode"
	}
}

// Loop events.
type (
	command struct {
		op   commandOp
		mode Mode
		done chan struct{}
	}

	timerFired struct {
		id uint64
	}

	pollResult struct {
		epoch   uint64
		seq     uint64
		snap    Snapshot
		err     error
		elapsed time.Duration
	}

	stateRequest struct {
		reply chan State
	}
)

// Controller owns the counter state and drives it from commands, its timer
// and remote poll results. Construct it with New and start its loop with Run.
type Controller struct {
	display Display
	source  Source
	opts    Options
	log     *slog.Logger

	events chan any
	done   chan struct{}

	// ctx parents every in-flight fetch; cancelled when Run returns.
	ctx    context.Context
	cancel context.CancelFunc

	// Owned by the loop goroutine.
	state    State
	timer    *timerHandle
	nextID   uint64
	epoch    uint64 // bumped on every mode switch
	pollSeq  uint64 // last poll issued
	lastSeq  uint64 // newest poll resolved
	degraded bool   // last poll failed
}

// New creates a controller in local mode, stopped, showing 1 with zero cycles.
// A nil display discards updates; a nil source fails every poll.
func New(display Display, source Source, opts Options) *Controller {
	if display == nil {
		display = NopDisplay{}
	}
	if source == nil {
		source = SourceFunc(func(context.Context) (Snapshot, error) {
			return Snapshot{}, fmt.Errorf("%w: no source configured", ErrRemoteFetch)
		})
	}
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		display: display,
		source:  source,
		opts:    opts,
		log:     opts.Logger.With("component", "counter"),
		events:  make(chan any, 16),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		state:   initialState(),
	}
}

// Run paints the initial state and then processes events until ctx is done.
// It must be called exactly once. Pending fetches are cancelled on return.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.cancel()

	c.opts.Recorder.SetMode(c.state.Mode.String())
	c.display.SetNumber(c.state.Number, false)
	c.display.SetCycleCount(c.state.Cycles)
	c.display.SetStatus(StatusStopped)
	c.log.Debug("loop started")

	for {
		select {
		case <-ctx.Done():
			c.disarm()
			c.log.Debug("loop stopped")
			return nil
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Start runs the local clock. It has no effect while running or in sync mode.
func (c *Controller) Start() { c.do(command{op: opStart}) }

// Stop halts the local clock. It has no effect when stopped or in sync mode.
func (c *Controller) Stop() { c.do(command{op: opStop}) }

// Reset stops the local clock and returns to 1 with zero cycles. It has no
// effect in sync mode.
func (c *Controller) Reset() { c.do(command{op: opReset}) }

// SetMode switches between local and sync mode. Switching to sync polls
// immediately and then on every poll interval; switching back lands stopped.
func (c *Controller) SetMode(m Mode) { c.do(command{op: opSetMode, mode: m}) }

// State returns a copy of the current state.
func (c *Controller) State() State {
	req := stateRequest{reply: make(chan State, 1)}

	select {
	case c.events <- req:
	case <-c.done:
		return c.state
	}

	select {
	case s := <-req.reply:
		return s
	case <-c.done:
		return c.state
	}
}

// do hands cmd to the loop and waits until it has been applied. After Run has
// returned commands are dropped.
func (c *Controller) do(cmd command) {
	cmd.done = make(chan struct{})

	select {
	case c.events <- cmd:
	case <-c.done:
		return
	}

	select {
	case <-cmd.done:
	case <-c.done:
	}
}

// post delivers an event from a helper goroutine, giving up once the loop has
// exited.
func (c *Controller) post(ev any) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) handle(ev any) {
	switch ev := ev.(type) {
	case command:
		c.apply(ev)
		close(ev.done)
	case timerFired:
		c.fire(ev)
	case pollResult:
		c.resolvePoll(ev)
	case stateRequest:
		ev.reply <- c.state
	default:
		c.log.Error("unknown event", "type", fmt.Sprintf("%T", ev))
	}
}

func (c *Controller) apply(cmd command) {
	if cmd.op != opSetMode && c.state.Mode == ModeSync {
		c.log.Debug("command ignored in sync mode", "command", cmd.op)
		return
	}

	switch cmd.op {
	case opStart:
		c.start()
	case opStop:
		c.stop()
	case opReset:
		c.reset()
	case opSetMode:
		c.setMode(cmd.mode)
	}
}

func (c *Controller) start() {
	if c.state.Running {
		return
	}

	c.arm(timerTick, c.opts.TickInterval)
	c.state.Running = true
	c.display.SetStatus(StatusRunning)
	c.log.Info("counter started")
}

func (c *Controller) stop() {
	if !c.state.Running {
		return
	}

	c.disarm()
	c.state.Running = false
	c.display.SetStatus(StatusStopped)
	c.log.Info("counter stopped")
}

func (c *Controller) reset() {
	c.stop()
	c.state.Number = MinNumber
	c.state.Cycles = 0
	c.refresh()
	c.log.Info("counter reset")
}

func (c *Controller) setMode(m Mode) {
	if m == c.state.Mode {
		return
	}

	switch m {
	case ModeSync:
		c.disarm()
		c.state.Running = false
		c.state.Mode = ModeSync
		c.epoch++
		c.degraded = false
		c.display.SetStatus(StatusSyncing)
		c.arm(timerPoll, c.opts.PollInterval)
		c.poll()
	case ModeLocal:
		c.disarm()
		c.state.Mode = ModeLocal
		c.epoch++
		c.degraded = false
		c.display.SetStatus(StatusStopped)
	default:
		c.log.Warn("unknown mode ignored", "mode", m)
		return
	}

	c.opts.Recorder.SetMode(m.String())
	c.log.Info("mode changed", "mode", m)
}

// arm starts the repeating timer. The slot must be empty: every transition
// that arms cancels the previous timer first.
func (c *Controller) arm(kind timerKind, period time.Duration) {
	if c.timer != nil {
		panic(fmt.Sprintf("counter: arming %s timer while %s timer %d is active", kind, c.timer.kind, c.timer.id))
	}

	c.nextID++
	h := &timerHandle{
		id:     c.nextID,
		kind:   kind,
		ticker: c.opts.Clock.NewTicker(period),
		stop:   make(chan struct{}),
	}
	c.timer = h
	c.state.TimerArmed = true

	go c.forward(h)
}

// disarm cancels the active timer, if any. Fires already queued for it are
// dropped by fire because the handle id no longer matches.
func (c *Controller) disarm() {
	h := c.timer
	if h == nil {
		return
	}

	h.ticker.Stop()
	close(h.stop)
	c.timer = nil
	c.state.TimerArmed = false
}

// forward turns ticker fires into loop events until the handle is cancelled.
func (c *Controller) forward(h *timerHandle) {
	for {
		select {
		case <-h.stop:
			return
		case <-h.ticker.Chan():
			select {
			case c.events <- timerFired{id: h.id}:
			case <-h.stop:
				return
			case <-c.done:
				return
			}
		}
	}
}

func (c *Controller) fire(ev timerFired) {
	if c.timer == nil || c.timer.id != ev.id {
		c.log.Debug("dropping fire from cancelled timer", "timer", ev.id)
		return
	}

	switch c.timer.kind {
	case timerTick:
		c.tick()
	case timerPoll:
		c.poll()
	}
}

func (c *Controller) tick() {
	c.state.Number++
	if c.state.Number > MaxNumber {
		c.state.Number = MinNumber
		c.state.Cycles++
		c.opts.Recorder.IncCycle()
	}

	c.opts.Recorder.IncTick()
	c.refresh()
	c.log.Debug("tick", "number", c.state.Number, "cycles", c.state.Cycles)
}

// poll issues one fetch on its own goroutine. The result comes back through
// the loop tagged with the current epoch and a fresh sequence number.
func (c *Controller) poll() {
	c.pollSeq++
	epoch, seq := c.epoch, c.pollSeq
	clock := c.opts.Clock

	go func() {
		ctx, cancel := context.WithTimeout(c.ctx, c.opts.PollTimeout)
		defer cancel()

		start := clock.Now()
		snap, err := c.source.FetchSnapshot(ctx)
		c.post(pollResult{epoch: epoch, seq: seq, snap: snap, err: err, elapsed: clock.Since(start)})
	}()
}

func (c *Controller) resolvePoll(res pollResult) {
	if res.epoch != c.epoch || c.state.Mode != ModeSync || res.seq < c.lastSeq {
		c.log.Debug("discarding stale poll result", "seq", res.seq, "epoch", res.epoch)
		c.opts.Recorder.ObservePoll(metrics.PollStale, res.elapsed)
		return
	}
	c.lastSeq = res.seq

	if err := fetchError(res); err != nil {
		c.opts.Recorder.ObservePoll(metrics.PollFailed, res.elapsed)
		c.log.Warn("remote poll failed", "seq", res.seq, "error", err)
		c.degraded = true
		c.display.SetStatus(StatusServerError)
		return
	}

	if c.degraded {
		c.degraded = false
		c.display.SetStatus(StatusSyncing)
	}

	if res.snap.Number == c.state.Number {
		c.opts.Recorder.ObservePoll(metrics.PollUnchanged, res.elapsed)
		return
	}

	c.state.Number = res.snap.Number
	c.state.Cycles = res.snap.TotalCycles
	c.opts.Recorder.ObservePoll(metrics.PollApplied, res.elapsed)
	c.refresh()
	c.log.Debug("mirrored remote snapshot", "number", c.state.Number, "cycles", c.state.Cycles)
}

// fetchError classifies a poll result as ErrRemoteFetch or nil.
func fetchError(res pollResult) error {
	switch {
	case res.err != nil && errors.Is(res.err, ErrRemoteFetch):
		return res.err
	case res.err != nil:
		return fmt.Errorf("%w: %w", ErrRemoteFetch, res.err)
	}

	if err := res.snap.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}

	return nil
}

func (c *Controller) refresh() {
	c.display.SetNumber(c.state.Number, true)
	c.display.SetCycleCount(c.state.Cycles)
}
