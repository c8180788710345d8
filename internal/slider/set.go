package slider

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/dshills/multislider/internal/event"
	"github.com/dshills/multislider/internal/logging"
	"github.com/dshills/multislider/internal/quantize"
	"github.com/dshills/multislider/internal/track"
)

// DefaultTrackWidth is the track width used when none is configured.
const DefaultTrackWidth = 100

// Option configures a Set.
type Option func(*Set)

// WithBus publishes notifications on bus instead of a private one.
func WithBus(bus *event.Bus) Option {
	return func(s *Set) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Set) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTrackWidth sets the initial track width in pixels.
func WithTrackWidth(w float64) Option {
	return func(s *Set) {
		if finite(w) && w >= 0 {
			s.trackWidth = w
		}
	}
}

// WithSource sets the Source recorded in published event metadata.
func WithSource(name string) Option {
	return func(s *Set) {
		s.source = name
	}
}

// Set is a multi-handle slider: a value domain plus handles kept sorted,
// quantized and separated. A Set is not safe for concurrent use; it is
// driven from a single host loop. Only Defer may be called from other
// goroutines.
type Set struct {
	cfg        RangeConfig
	q          quantize.Quantizer
	trackWidth float64
	width      float64

	handles []*Handle
	byID    map[HandleID]*Handle

	drag *DragController

	bus    *event.Bus
	log    *logging.Logger
	source string

	// Notifications collected by the running operation.
	pending    []Notification
	batch      int
	publishing bool

	deferMu  sync.Mutex
	deferred []func(*Set)
}

// New creates a Set with no handles.
func New(cfg RangeConfig, opts ...Option) (*Set, error) {
	if err := cfg.validate("New"); err != nil {
		return nil, err
	}

	s := &Set{
		trackWidth: DefaultTrackWidth,
		byID:       make(map[HandleID]*Handle),
		log:        logging.Null,
		source:     "slider",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = event.NewBus()
	}
	s.log = s.log.WithComponent("slider")
	s.drag = &DragController{set: s}

	s.cfg, s.q = cfg.normalize()
	s.width = s.q.Round(s.cfg.MinWidth)
	return s, nil
}

// Config returns the current configuration.
func (s *Set) Config() RangeConfig { return s.cfg }

// Quantizer returns the active rounding rule.
func (s *Set) Quantizer() quantize.Quantizer { return s.q }

// Bus returns the bus notifications are published on.
func (s *Set) Bus() *event.Bus { return s.bus }

// Drag returns the drag controller.
func (s *Set) Drag() *DragController { return s.drag }

// TrackWidth returns the track width in pixels.
func (s *Set) TrackWidth() float64 { return s.trackWidth }

// Width returns the width every handle is drawn with.
func (s *Set) Width() float64 { return s.width }

// Len returns the number of handles.
func (s *Set) Len() int { return len(s.handles) }

// At returns the handle at sorted position i, or nil.
func (s *Set) At(i int) *Handle {
	if i < 0 || i >= len(s.handles) {
		return nil
	}
	return s.handles[i]
}

// Handle returns the handle with the given id.
func (s *Set) Handle(id HandleID) (*Handle, bool) {
	h, ok := s.byID[id]
	return h, ok
}

// OrderedHandles returns handle ids in sorted order.
func (s *Set) OrderedHandles() []HandleID {
	ids := make([]HandleID, len(s.handles))
	for i, h := range s.handles {
		ids[i] = h.id
	}
	return ids
}

// Values returns handle values in sorted order.
func (s *Set) Values() []float64 {
	vs := make([]float64, len(s.handles))
	for i, h := range s.handles {
		vs[i] = h.value
	}
	return vs
}

// Value returns the value of a handle.
func (s *Set) Value(id HandleID) (float64, error) {
	h, ok := s.byID[id]
	if !ok {
		return 0, handleNotFound(id)
	}
	return h.value, nil
}

// Offset returns the pixel offset of a handle from the track centre.
func (s *Set) Offset(id HandleID) (float64, error) {
	h, ok := s.byID[id]
	if !ok {
		return 0, handleNotFound(id)
	}
	return h.offset, nil
}

// Mapper returns the value/pixel mapping for a handle of the current width.
func (s *Set) Mapper() track.Mapper {
	return track.Mapper{
		TrackWidth:  s.trackWidth,
		HandleWidth: s.width,
		MinValue:    s.cfg.MinValue,
		MaxValue:    s.cfg.MaxValue,
	}
}

// Capacity returns the advisory handle width for the current track and
// limits. It is never applied automatically.
func (s *Set) Capacity() float64 {
	return track.Capacity(s.trackWidth, s.cfg.MinLimit, s.cfg.MaxLimit, s.cfg.MinDistance)
}

// MaxDistance returns the largest MinDistance that still lets every current
// handle fit into the value range.
func (s *Set) MaxDistance() float64 {
	span := math.Abs(s.cfg.Span())
	if len(s.handles) < 2 {
		return span
	}
	return s.q.Floor(span / float64(len(s.handles)-1))
}

// HandleAt returns the handle drawn under pointerX. When handles overlap the
// one whose centre is nearest wins; ties go to the later handle, which is
// drawn on top.
func (s *Set) HandleAt(pointerX float64) (HandleID, bool) {
	best := NoHandle
	bestDist := math.Inf(1)
	for _, h := range s.handles {
		half := math.Max(h.width/2, 0.5)
		d := math.Abs(pointerX - h.offset)
		if d <= half && d <= bestDist {
			best, bestDist = h.id, d
		}
	}
	return best, best != NoHandle
}

// Subscribe registers fn for notifications matching pattern.
func (s *Set) Subscribe(pattern event.Topic, fn func(Notification), opts ...event.SubscriptionOption) (*event.Subscription, error) {
	return s.bus.SubscribeFunc(pattern, func(_ context.Context, ev event.Event) error {
		if n, ok := FromEvent(ev); ok {
			fn(n)
		}
		return nil
	}, opts...)
}

// Delivering reports whether notifications are being delivered.
func (s *Set) Delivering() bool { return s.publishing }

// SetLimits replaces the limit range. A value range that no longer fits is
// narrowed into the new limits.
func (s *Set) SetLimits(minLimit, maxLimit float64) error {
	const op = "SetLimits"
	if err := s.guard(op); err != nil {
		return err
	}
	if !finite(minLimit, maxLimit) {
		return &ConfigError{Op: op, Field: "limits", Min: minLimit, Max: maxLimit, Err: ErrNonFinite}
	}
	if minLimit > maxLimit {
		return &ConfigError{Op: op, Field: "limits", Min: minLimit, Max: maxLimit, Err: ErrInvalidRange}
	}

	next := s.cfg
	next.MinLimit, next.MaxLimit = minLimit, maxLimit
	s.begin()
	defer s.end()
	s.reconfigure(next)
	return nil
}

// SetValueRange replaces the value range. It must lie within the limits.
func (s *Set) SetValueRange(minValue, maxValue float64) error {
	const op = "SetValueRange"
	if err := s.guard(op); err != nil {
		return err
	}
	next := s.cfg
	next.MinValue, next.MaxValue = minValue, maxValue
	if err := next.validate(op); err != nil {
		return err
	}
	s.begin()
	defer s.end()
	s.reconfigure(next)
	return nil
}

// SetMinWidth sets the handle width. Negative widths become the smallest
// grid step.
func (s *Set) SetMinWidth(w float64) error {
	const op = "SetMinWidth"
	if err := s.guard(op); err != nil {
		return err
	}
	if !finite(w) {
		return &ConfigError{Op: op, Field: "width", Min: w, Max: w, Err: ErrNonFinite}
	}
	next := s.cfg
	next.MinWidth = w
	s.begin()
	defer s.end()
	s.reconfigure(next)
	return nil
}

// SetMinDistance sets the required gap between neighbors. It is capped at
// the value range span and rounded to a non-zero grid value.
func (s *Set) SetMinDistance(d float64) error {
	const op = "SetMinDistance"
	if err := s.guard(op); err != nil {
		return err
	}
	if !finite(d) {
		return &ConfigError{Op: op, Field: "distance", Min: d, Max: d, Err: ErrNonFinite}
	}
	next := s.cfg
	next.MinDistance = d
	s.begin()
	defer s.end()
	s.reconfigure(next)
	return nil
}

// SetDecimals sets the decimal precision; zero falls back to Multiples.
// Every stored quantity is re-rounded onto the new grid.
func (s *Set) SetDecimals(n int) error {
	if err := s.guard("SetDecimals"); err != nil {
		return err
	}
	next := s.cfg
	next.Decimals = n
	s.begin()
	defer s.end()
	s.reconfigure(next)
	return nil
}

// SetMultiples sets the rounding step used while Decimals is zero. Values
// below one become one. Every stored quantity is re-rounded onto the new grid.
func (s *Set) SetMultiples(n int) error {
	if err := s.guard("SetMultiples"); err != nil {
		return err
	}
	next := s.cfg
	next.Multiples = n
	s.begin()
	defer s.end()
	s.reconfigure(next)
	return nil
}

// Apply replaces the whole configuration in one step.
func (s *Set) Apply(cfg RangeConfig) error {
	const op = "Apply"
	if err := s.guard(op); err != nil {
		return err
	}
	if err := cfg.validate(op); err != nil {
		return err
	}
	s.begin()
	defer s.end()
	s.reconfigure(cfg)
	return nil
}

// SetTrackWidth sets the track width and repositions every handle.
func (s *Set) SetTrackWidth(w float64) error {
	const op = "SetTrackWidth"
	if err := s.guard(op); err != nil {
		return err
	}
	if !finite(w) {
		return &ConfigError{Op: op, Field: "track width", Min: w, Max: w, Err: ErrNonFinite}
	}
	w = math.Max(w, 0)
	if w == s.trackWidth {
		return nil
	}

	s.begin()
	defer s.end()
	delta := w - s.trackWidth
	s.trackWidth = w
	s.emit(Notification{Kind: KindTrackResized, Width: w, Delta: delta})
	s.sweep()
	return nil
}

// reconfigure installs next (normalized onto its grid), re-rounds handle
// values when the grid changed and restores every invariant.
func (s *Set) reconfigure(next RangeConfig) {
	prev, prevQ := s.cfg, s.q
	s.cfg, s.q = next.normalize()

	if !s.q.Equal(prevQ) {
		s.log.Debug("quantizer %s(%g) -> %s(%g)", prevQ.Mode(), prevQ.Step(), s.q.Mode(), s.q.Step())
		for _, h := range s.handles {
			s.setValue(h, s.q.Round(h.value))
		}
	}

	if prev.MinLimit != s.cfg.MinLimit || prev.MaxLimit != s.cfg.MaxLimit {
		s.emit(Notification{Kind: KindLimitRangeChanged, Min: s.cfg.MinLimit, Max: s.cfg.MaxLimit})
	}
	if prev.MinValue != s.cfg.MinValue || prev.MaxValue != s.cfg.MaxValue {
		s.emit(Notification{Kind: KindValueRangeChanged, Min: s.cfg.MinValue, Max: s.cfg.MaxValue})
	}
	if prev.MinDistance != s.cfg.MinDistance {
		s.emit(Notification{Kind: KindDistanceChanged, Value: s.cfg.MinDistance})
	}
	s.updateWidth()
}

// AddHandle inserts a handle at MinValue and lets the sweep push it clear of
// its neighbors. If the current MinDistance cannot fit one more handle into
// the value range it is relaxed first.
func (s *Set) AddHandle() (HandleID, error) {
	if err := s.guard("AddHandle"); err != nil {
		return NoHandle, err
	}
	s.begin()
	defer s.end()

	h := s.insert()
	s.sweep()
	s.emitCreated(h)
	return h.id, nil
}

// AddHandleAt inserts a handle at v (quantized and clamped into the value
// range), then re-sorts and sweeps as on drag release.
func (s *Set) AddHandleAt(v float64) (HandleID, error) {
	const op = "AddHandleAt"
	if err := s.guard(op); err != nil {
		return NoHandle, err
	}
	if !finite(v) {
		return NoHandle, &ConfigError{Op: op, Field: "value", Min: v, Max: v, Err: ErrNonFinite}
	}
	s.begin()
	defer s.end()

	h := s.insert()
	h.value = h.clampPos(s.q.Round(v), false)
	s.settle(h)
	s.emitCreated(h)
	return h.id, nil
}

func (s *Set) insert() *Handle {
	if n := len(s.handles); n > 0 {
		room := s.cfg.Span() / float64(n)
		if s.cfg.MinDistance > room {
			d := s.q.FloorNonZero(room)
			if d != s.cfg.MinDistance {
				s.log.Debug("relaxing distance %g -> %g for %d handles", s.cfg.MinDistance, d, n+1)
				s.cfg.MinDistance = d
				s.emit(Notification{Kind: KindDistanceChanged, Value: d})
			}
		}
	}

	h := &Handle{
		id:    newHandleID(),
		set:   s,
		value: s.cfg.MinValue,
		width: s.width,
		left:  -1,
		right: -1,
		fresh: true,
	}
	s.handles = append(s.handles, h)
	s.byID[h.id] = h
	s.updateOrder()
	return h
}

func (s *Set) emitCreated(h *Handle) {
	h.fresh = false
	s.emit(Notification{
		Kind:   KindHandleCreated,
		Handle: h.id,
		Value:  h.value,
		Offset: h.offset,
		Width:  h.width,
	})
}

// RemoveHandle destroys a handle and relinks its neighbors. The remaining
// handles keep their values.
func (s *Set) RemoveHandle(id HandleID) error {
	if err := s.guard("RemoveHandle"); err != nil {
		return err
	}
	h, ok := s.byID[id]
	if !ok {
		return handleNotFound(id)
	}
	s.begin()
	defer s.end()
	s.remove(h)
	return nil
}

func (s *Set) remove(h *Handle) {
	if s.drag.handle == h {
		s.drag.reset()
	}
	s.handles = append(s.handles[:h.index], s.handles[h.index+1:]...)
	delete(s.byID, h.id)
	s.relink()

	value := h.value
	h.set, h.index, h.left, h.right = nil, -1, -1, -1
	s.emit(Notification{Kind: KindHandleDestroyed, Handle: h.id, Value: value})
}

// MoveHandle moves a handle toward v, quantized and clamped to its current
// neighbor window. It returns the applied value change.
func (s *Set) MoveHandle(id HandleID, v float64) (float64, error) {
	const op = "MoveHandle"
	if err := s.guard(op); err != nil {
		return 0, err
	}
	if !finite(v) {
		return 0, &ConfigError{Op: op, Field: "value", Min: v, Max: v, Err: ErrNonFinite}
	}
	h, ok := s.byID[id]
	if !ok {
		return 0, handleNotFound(id)
	}
	s.begin()
	defer s.end()
	delta, _ := s.moveTo(h, s.q.Round(v))
	return delta, nil
}

// MoveHandleBy moves a handle by delta. See MoveHandle.
func (s *Set) MoveHandleBy(id HandleID, delta float64) (float64, error) {
	h, ok := s.byID[id]
	if !ok {
		return 0, handleNotFound(id)
	}
	return s.MoveHandle(id, h.value+delta)
}

// UpdateOrder re-sorts handles by value and rebuilds neighbor links.
func (s *Set) UpdateOrder() error {
	if err := s.guard("UpdateOrder"); err != nil {
		return err
	}
	s.updateOrder()
	return nil
}

// UpdatePositions runs the global sweep and refreshes every offset.
func (s *Set) UpdatePositions() error {
	if err := s.guard("UpdatePositions"); err != nil {
		return err
	}
	s.begin()
	defer s.end()
	s.sweep()
	return nil
}

// BeginDrag starts dragging a handle with the primary button.
func (s *Set) BeginDrag(id HandleID) error {
	return s.drag.PointerDown(id, ButtonPrimary)
}

// UpdateDrag feeds one pointer sample to the active drag.
func (s *Set) UpdateDrag(pointerX float64) error {
	_, err := s.drag.Sample(pointerX)
	return err
}

// EndDrag releases the active drag.
func (s *Set) EndDrag() error {
	return s.drag.PointerUp()
}

// RequestRemove removes a handle the way an alternate-button press does.
func (s *Set) RequestRemove(id HandleID) error {
	return s.drag.PointerDown(id, ButtonAlternate)
}

// Defer schedules fn to run on the next Flush. It is the supported way for
// notification handlers to mutate the set and may be called from any
// goroutine.
func (s *Set) Defer(fn func(*Set)) {
	if fn == nil {
		return
	}
	s.deferMu.Lock()
	s.deferred = append(s.deferred, fn)
	s.deferMu.Unlock()
}

// Pending returns the number of deferred functions waiting for Flush.
func (s *Set) Pending() int {
	s.deferMu.Lock()
	defer s.deferMu.Unlock()
	return len(s.deferred)
}

// Flush runs the functions queued by Defer. Functions queued while flushing
// wait for the next Flush. It returns the number of functions run.
func (s *Set) Flush() int {
	s.deferMu.Lock()
	queued := s.deferred
	s.deferred = nil
	s.deferMu.Unlock()

	for _, fn := range queued {
		fn(s)
	}
	return len(queued)
}

func (s *Set) guard(op string) error {
	if s.publishing {
		s.log.Debug("%s rejected during notification delivery", op)
		return fmt.Errorf("%s: %w", op, ErrReentrant)
	}
	return nil
}

// setValue stores v and records a value change. It returns the delta.
func (s *Set) setValue(h *Handle, v float64) float64 {
	if v == h.value {
		return 0
	}
	delta := v - h.value
	h.value = v
	if !h.fresh {
		s.emit(Notification{Kind: KindValueChanged, Handle: h.id, Value: v, Delta: delta})
	}
	return delta
}

// refreshOffset recomputes the pixel offset and returns the movement.
func (s *Set) refreshOffset(h *Handle) float64 {
	off := h.mapper().Offset(h.value)
	delta := off - h.offset
	h.offset = off
	return delta
}

// moveTo applies the local clamp to target and refreshes the offset.
func (s *Set) moveTo(h *Handle, target float64) (delta, offsetDelta float64) {
	delta = s.setValue(h, h.clampPos(target, true))
	offsetDelta = s.refreshOffset(h)
	return delta, offsetDelta
}

// updateWidth propagates the configured width to every handle and sweeps.
func (s *Set) updateWidth() {
	s.width = s.q.Round(s.cfg.MinWidth)
	for _, h := range s.handles {
		if h.width != s.width {
			h.width = s.width
			s.emit(Notification{Kind: KindWidthChanged, Handle: h.id, Width: h.width})
		}
	}
	s.sweep()
}

func (s *Set) emit(n Notification) {
	s.pending = append(s.pending, n)
}

func (s *Set) begin() {
	s.batch++
}

// end closes an operation. The outermost one delivers the collected
// notifications in order.
func (s *Set) end() {
	s.batch--
	if s.batch > 0 || len(s.pending) == 0 {
		return
	}

	pending := s.pending
	s.pending = nil
	s.publishing = true
	defer func() { s.publishing = false }()

	ctx := context.Background()
	for _, n := range pending {
		if err := s.bus.Publish(ctx, event.NewEvent(n.Kind.Topic(), n, s.source)); err != nil {
			s.log.Warn("delivering %s: %v", n.Kind, err)
		}
	}
}
