package session

import (
	"sync"
	"time"

	"afmdash/domain/analysis"
	"afmdash/domain/core"
	"afmdash/domain/feed"
	"afmdash/internal"
	analysisseq "afmdash/internal/analysis"
	apperrors "afmdash/internal/errors"
	"afmdash/internal/protocol"
	"afmdash/internal/store"
	"afmdash/internal/stream"
	"afmdash/ports"
)

// DefaultLoadingTimeout force-clears loading when no terminal status arrives
const DefaultLoadingTimeout = 30 * time.Second

// Config configures a Controller
type Config struct {
	URL            string
	LoadingTimeout time.Duration
	DialTimeout    time.Duration
}

// Controller orchestrates the streaming core: it opens sessions, sends curve
// requests built from the shared store, reduces inbound messages into the
// accumulated datasets and publishes views. All per-session state is guarded
// by mu and every socket callback checks that its session is still current.
type Controller struct {
	cfg      Config
	store    *store.AnalysisStore
	conns    *ConnectionManager
	logger   *internal.Logger
	versions *analysisseq.SequenceManager

	mu          sync.Mutex
	current     *Session
	status      analysis.ConnectionStatus
	initialSent bool
	builder     *stream.Builder
	acc         stream.Accumulated
	loading     *loadingTracker
	observers   []ports.ViewObserver
	view        feed.View
	closed      bool

	unsubscribe func()
}

// NewController wires a controller to the store and dialer. It does not
// connect; call Connect.
func NewController(cfg Config, st *store.AnalysisStore, dialer ports.Dialer, logger *internal.Logger) *Controller {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.LoadingTimeout <= 0 {
		cfg.LoadingTimeout = DefaultLoadingTimeout
	}
	c := &Controller{
		cfg:      cfg,
		store:    st,
		conns:    NewConnectionManager(dialer, cfg.DialTimeout, logger),
		logger:   logger,
		versions: analysisseq.NewSequenceManager(),
		status:   analysis.StatusDisconnected,
		builder:  stream.NewBuilder(),
		acc:      stream.NewAccumulated(),
		loading:  newLoadingTracker(cfg.LoadingTimeout),
	}
	c.mu.Lock()
	c.publishLocked()
	c.mu.Unlock()

	c.unsubscribe = st.OnSelectedCurveChange(c.onSelectedCurveChange)
	return c
}

// Subscribe registers an observer and immediately hands it the current view
func (c *Controller) Subscribe(o ports.ViewObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
	o.OnView(c.view)
}

// View returns the latest published view
func (c *Controller) View() feed.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Connect opens a fresh session, closing the previous one first. The new
// session sends its own initial request once open.
func (c *Controller) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openLocked()
}

// ResetAndReload discards everything accumulated and reconnects from scratch.
// Used after the backend's dataset was replaced.
func (c *Controller) ResetAndReload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builder.ForceRefresh()
	c.initialSent = false
	c.openLocked()
}

// SendCurveRequest builds a request from one store snapshot and sends it on
// the open session. It returns a NOT_CONNECTED error when no session is open.
func (c *Controller) SendCurveRequest() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendLocked()
}

// Shutdown closes the session, abandoning any in-flight request
func (c *Controller) Shutdown() {
	c.unsubscribe()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.endLoadingLocked(feed.OutcomeClosed)
	if c.current != nil {
		c.conns.Close(c.current)
		c.current = nil
	}
	c.setStatusLocked(analysis.StatusDisconnected)
	c.publishLocked()
}

func (c *Controller) openLocked() {
	if c.closed {
		return
	}
	c.endLoadingLocked(feed.OutcomeClosed)
	c.initialSent = false
	c.builder.Forget()
	c.acc = stream.ResetCurves(c.acc)
	c.setStatusLocked(analysis.StatusConnecting)
	c.store.SetLastSocketError("")

	c.current = c.conns.Open(c.cfg.URL, c)
	c.publishLocked()
}

func (c *Controller) sendLocked() error {
	s := c.current
	if s == nil || s.State() != Open {
		return apperrors.NotConnected()
	}

	plan := c.builder.Build(c.store.Snapshot())
	payload, err := plan.Request.Encode()
	if err != nil {
		return apperrors.Wrap(err, "encode curve request")
	}
	sent, err := c.conns.Send(s, payload)
	if err != nil {
		return apperrors.Wrap(err, "send curve request")
	}
	if !sent {
		return apperrors.NotConnected()
	}

	c.builder.Commit(plan)
	if plan.Reset {
		c.acc = stream.ResetCurves(c.acc)
	}
	c.loading.start(c.onLoadingTimeout)
	c.store.SetLoading(store.LoadingCurves, true)
	c.logger.Debug("[Session] %s request sent num_curves=%d curve_id=%q reset=%v",
		s.ID, plan.Request.NumCurves, plan.Request.CurveID, plan.Reset)
	c.publishLocked()
	return nil
}

// OnOpen implements Events
func (c *Controller) OnOpen(id core.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isCurrentLocked(id) {
		return
	}
	c.setStatusLocked(analysis.StatusConnected)
	if !c.initialSent {
		if err := c.sendLocked(); err != nil {
			c.logger.Warn("[Session] %s initial request: %v", id, err)
		}
		c.initialSent = true
	}
	c.publishLocked()
}

// OnMessage implements Events
func (c *Controller) OnMessage(id core.SessionID, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isCurrentLocked(id) {
		c.logger.Trace("[Session] dropping message of superseded session %s", id)
		return
	}

	action, err := protocol.Decode(data)
	if err != nil {
		c.logger.Warn("[Session] %s dropping message: %v", id, err)
		return
	}

	next, effects := stream.Reduce(c.acc, action)
	c.acc = next
	for _, e := range effects {
		c.applyEffectLocked(e)
	}
	c.publishLocked()
}

// OnError implements Events
func (c *Controller) OnError(id core.SessionID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isCurrentLocked(id) {
		return
	}
	c.setStatusLocked(analysis.StatusError)
	c.store.SetLastSocketError("WebSocket error: " + err.Error())
	c.endLoadingLocked(feed.OutcomeError)
	c.publishLocked()
}

// OnClose implements Events
func (c *Controller) OnClose(id core.SessionID, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isCurrentLocked(id) {
		return
	}
	c.setStatusLocked(analysis.StatusDisconnected)
	c.endLoadingLocked(feed.OutcomeClosed)
	c.initialSent = false
	c.publishLocked()
}

func (c *Controller) onSelectedCurveChange(id string) {
	if id == "" {
		return
	}
	if err := c.SendCurveRequest(); err != nil {
		c.logger.Debug("[Session] selection %q not sent: %v", id, err)
	}
}

func (c *Controller) onLoadingTimeout(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loading.current(token) {
		return
	}
	c.logger.Warn("[Session] no terminal status within %s, clearing loading", c.cfg.LoadingTimeout)
	c.endLoadingLocked(feed.OutcomeTimedOut)
	c.publishLocked()
}

func (c *Controller) applyEffectLocked(e stream.Effect) {
	switch eff := e.(type) {
	case stream.SelectCurves:
		c.store.SetSelectedCurveIDs(eff.IDs)
	case stream.LoadingDone:
		c.endLoadingLocked(eff.Outcome)
	case stream.ReportError:
		c.logger.Error("[Session] backend error: %s", eff.Message)
		c.store.SetError(eff.Message)
	case stream.Log:
		switch eff.Level {
		case stream.LogWarn:
			c.logger.Warn("[Session] %s", eff.Message)
		case stream.LogInfo:
			c.logger.Info("[Session] %s", eff.Message)
		default:
			c.logger.Debug("[Session] %s", eff.Message)
		}
	}
}

// endLoadingLocked disarms the timeout and clears the curve loading flag.
// Every exit from loading goes through here.
func (c *Controller) endLoadingLocked(outcome feed.Outcome) {
	if c.loading.finish(outcome) {
		c.logger.Debug("[Session] loading finished: %s", outcome)
	}
	c.store.Update(func(st *analysis.State) {
		st.Loading.Curves = false
	})
}

func (c *Controller) setStatusLocked(status analysis.ConnectionStatus) {
	c.status = status
	c.store.SetConnectionStatus(status)
}

func (c *Controller) isCurrentLocked(id core.SessionID) bool {
	return !c.closed && c.current != nil && c.current.ID == id
}

func (c *Controller) publishLocked() {
	var id core.SessionID
	if c.current != nil {
		id = c.current.ID
	}
	c.view = feed.View{
		Version:        c.versions.Next(),
		SessionID:      id,
		Status:         c.status,
		Phase:          c.loading.phase,
		LastOutcome:    c.loading.lastOutcome,
		Datasets:       c.acc.Datasets,
		FilterDefaults: c.acc.FilterDefaults,
		Metadata:       c.acc.Metadata,
		UpdatedAt:      time.Now(),
	}
	for _, o := range c.observers {
		o.OnView(c.view)
	}
}
