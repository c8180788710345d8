// Package slider implements the multi-handle range slider engine.
//
// A Set owns a bounded value domain and an ordered collection of Handles.
// Every handle holds a quantized value inside [MinValue, MaxValue] and keeps
// at least MinDistance from its neighbors. The engine keeps these
// constraints true as handles are added, removed, dragged or reordered and
// as the range configuration changes.
//
// # Core Types
//
// RangeConfig describes the domain:
//
//	cfg := slider.DefaultRangeConfig()
//	cfg.MinDistance = 10
//	set, err := slider.New(cfg, slider.WithTrackWidth(300))
//
// Handle is a single draggable value marker. Handles are owned by the Set
// and addressed by a stable HandleID; their neighbor links are indices into
// the Set's ordered storage and are rebuilt whenever the order is derived.
//
// # Clamping
//
// Two clamp variants exist. The symmetric clamp restricts a value to
// [left neighbor + MinDistance, right neighbor - MinDistance]. The
// directional clamp enforces only the lower bound when sweeping rightward
// and only the upper bound when sweeping leftward. The global sweep runs a
// full rightward pass followed by a full leftward pass, which restores the
// separation invariant whenever the domain is wide enough:
//
//	MaxValue - MinValue >= (len-1) * MinDistance
//
// When it is not, handles collapse toward the domain ends in sorted order.
// That degeneracy is accepted, not reported.
//
// # Dragging
//
// DragController translates pointer samples into value changes. During a
// drag only the local neighbor window applies and neighbor identities stay
// frozen; the full re-sort and global sweep happen on release.
//
// # Notifications
//
// Every state change is described by a Notification published on an
// event.Bus under a "slider.*" topic. Notifications produced by one public
// call are delivered synchronously after the call has restored every
// invariant. Handlers must not mutate the Set directly (mutators return
// ErrReentrant while delivery is in progress); they schedule work with
// Defer, which the host drains with Flush on its next tick.
package slider
