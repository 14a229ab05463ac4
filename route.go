package roadnet

import (
	"github.com/pkg/errors"
)

// Route is an ordered sequence of segments starting at a fixed location.
// Each segment is either a road or another route; the end location of every
// segment must coincide with the start of the next one.
type Route struct {
	startLocation Endpoint
	segments      []Segment
	usedBy        []*Route
	terminated    bool
}

// NewRoute builds a route starting at the given location and adds the given
// segments one by one. When any segment cannot be attached the partially
// built route is torn down and the error is returned.
func NewRoute(startLocation Endpoint, segments ...Segment) (*Route, error) {
	if !IsValidEndpoint(startLocation) {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "start location %s", startLocation)
	}
	route := &Route{startLocation: startLocation}
	for i, segment := range segments {
		if err := route.AddSegment(segment); err != nil {
			route.dissolve()
			return nil, errors.Wrapf(err, "Can't add segment %d", i)
		}
	}
	return route, nil
}

// dissolve unwinds a partially built route: segments already attached are
// released with their back references intact elsewhere, and the route is
// left terminated so it can never be observed half-initialized.
func (r *Route) dissolve() {
	for len(r.segments) > 0 {
		last := r.segments[len(r.segments)-1]
		r.segments = r.segments[:len(r.segments)-1]
		r.unregister(last)
	}
	r.terminated = true
}

// StartLocation returns the location where this route starts.
func (r *Route) StartLocation() Endpoint {
	return r.startLocation
}

// Segments returns a copy of the segment sequence of this route.
func (r *Route) Segments() []Segment {
	segments := make([]Segment, len(r.segments))
	copy(segments, r.segments)
	return segments
}

// NumberOfSegments returns how many segments this route has.
func (r *Route) NumberOfSegments() int {
	return len(r.segments)
}

// SegmentAt returns the segment at the given position. An out-of-range index
// is a caller bug.
func (r *Route) SegmentAt(index int) Segment {
	if index < 0 || index >= len(r.segments) {
		panic("segment index out of range")
	}
	return r.segments[index]
}

// EndLocation derives the location where this route ends from its last
// segment and, when the last segment is a two-way road, from the segment
// before it. An empty route ends where it starts.
func (r *Route) EndLocation() Endpoint {
	n := len(r.segments)
	if n == 0 {
		return r.startLocation
	}
	switch last := r.segments[n-1].(type) {
	case *Route:
		return last.EndLocation()
	case *Road:
		return r.endLocationOverRoad(last, n)
	default:
		panic("Should not happen!")
	}
}

func (r *Route) endLocationOverRoad(last *Road, n int) Endpoint {
	if last.EndPoint1().Equal(last.EndPoint2()) {
		return last.EndPoint1()
	}
	if n == 1 {
		if last.EndPoint1().Equal(r.startLocation) {
			return last.EndPoint2()
		}
		return last.EndPoint1()
	}
	if last.IsOneWay() {
		return last.EndPoint2()
	}
	switch prev := r.segments[n-2].(type) {
	case *Road:
		if prev.IsOneWay() {
			if last.EndPoint1().Equal(prev.EndPoint2()) {
				return last.EndPoint2()
			}
			return last.EndPoint1()
		}
		return r.endLocationAfterTwoWay(last, prev, n)
	case *Route:
		prevEnd := prev.EndLocation()
		if last.EndPoint1().Equal(prevEnd) {
			return last.EndPoint2()
		}
		return last.EndPoint1()
	default:
		panic("Should not happen!")
	}
}

// endLocationAfterTwoWay resolves the orientation of a two-way road that
// follows another two-way road. When the shared end point is ambiguous the
// end location of the route truncated before the last segment decides which
// end of the last road was entered.
func (r *Route) endLocationAfterTwoWay(last, prev *Road, n int) Endpoint {
	e1, e2 := last.EndPoint1(), last.EndPoint2()
	p1, p2 := prev.EndPoint1(), prev.EndPoint2()
	switch {
	case e1.Equal(p1) && !e2.Equal(p2):
		return e2
	case e1.Equal(p1):
		return r.tieBreak(last, n)
	case e2.Equal(p1) && !e1.Equal(p2):
		return e1
	case e2.Equal(p1):
		return r.tieBreak(last, n)
	case e1.Equal(p2) && !e2.Equal(p1):
		return e2
	case e1.Equal(p2):
		return r.tieBreak(last, n)
	case e2.Equal(p2) && !e1.Equal(p1):
		return e1
	default:
		return r.tieBreak(last, n)
	}
}

// tieBreak computes the end location of this route without its last segment.
// The temporary route shares the underlying segment slice and registers no
// back references, so the computation is free of side effects.
func (r *Route) tieBreak(last *Road, n int) Endpoint {
	truncated := &Route{startLocation: r.startLocation, segments: r.segments[:n-1]}
	if truncated.EndLocation().Equal(last.EndPoint1()) {
		return last.EndPoint2()
	}
	return last.EndPoint1()
}

// CanHaveAsSegment checks whether the given segment could be attached at the
// current end of this route.
func (r *Route) CanHaveAsSegment(segment Segment) bool {
	if segment == nil || r.terminated {
		return false
	}
	anchor := r.EndLocation()
	switch candidate := segment.(type) {
	case *Road:
		if !candidate.canHaveAsRoute(r) {
			return false
		}
		if candidate.IsOneWay() {
			return candidate.EndPoint1().Equal(anchor)
		}
		return candidate.EndPoint1().Equal(anchor) || candidate.EndPoint2().Equal(anchor)
	case *Route:
		if candidate.IsTerminated() || candidate.HasAsSubSegment(r) {
			return false
		}
		// An improper nested route would break the chain of any route
		// embedding it.
		if !candidate.HasProperSegments() {
			return false
		}
		return candidate.StartLocation().Equal(anchor)
	default:
		panic("Should not happen!")
	}
}

// HasProperSegments checks whether the segments of this route form a
// connected chain from its start location to its end location, with every
// road registered against this route and every nested route proper in turn.
// A route without segments is not proper.
func (r *Route) HasProperSegments() bool {
	if len(r.segments) == 0 {
		return false
	}
	cursor := r.startLocation
	for _, segment := range r.segments {
		switch seg := segment.(type) {
		case *Road:
			if !seg.canHaveAsRoute(r) || !seg.hasAsRoute(r) {
				return false
			}
			next, ok := traverseRoad(seg, cursor)
			if !ok {
				return false
			}
			cursor = next
		case *Route:
			if !seg.StartLocation().Equal(cursor) || !seg.HasProperSegments() {
				return false
			}
			cursor = seg.EndLocation()
		default:
			return false
		}
	}
	return cursor.Equal(r.EndLocation())
}

// traverseRoad enters the given road at the given location and returns the
// location it exits at. One-way roads must be entered at their first end
// point; a self-loop exits where it entered.
func traverseRoad(road *Road, from Endpoint) (Endpoint, bool) {
	if road.IsOneWay() {
		if !road.EndPoint1().Equal(from) {
			return Endpoint{}, false
		}
		return road.EndPoint2(), true
	}
	switch {
	case road.EndPoint1().Equal(from):
		return road.EndPoint2(), true
	case road.EndPoint2().Equal(from):
		return road.EndPoint1(), true
	default:
		return Endpoint{}, false
	}
}

// TotalLength returns the summed length in meters of all roads on this
// route, including those of nested routes. Fails when the segment chain is
// inconsistent.
func (r *Route) TotalLength() (int, error) {
	if !r.HasProperSegments() {
		return 0, errors.Wrap(ErrInvalidState, "improper segment chain")
	}
	return r.totalLength(), nil
}

func (r *Route) totalLength() int {
	total := 0
	for _, segment := range r.segments {
		switch seg := segment.(type) {
		case *Road:
			total += seg.Length()
		case *Route:
			total += seg.totalLength()
		}
	}
	return total
}

// IsTraversable reports whether this route can currently be traversed from
// start to end, taking the blocked state of each road in its direction of
// travel into account. Fails when the segment chain is inconsistent.
func (r *Route) IsTraversable() (bool, error) {
	if !r.HasProperSegments() {
		return false, errors.Wrap(ErrInvalidState, "improper segment chain")
	}
	ok, _ := r.traversableFrom(r.startLocation)
	return ok, nil
}

func (r *Route) traversableFrom(from Endpoint) (bool, Endpoint) {
	cursor := from
	for _, segment := range r.segments {
		switch seg := segment.(type) {
		case *Road:
			if seg.EndPoint1().Equal(seg.EndPoint2()) {
				if seg.BlockedForth() || (!seg.IsOneWay() && seg.BlockedOpposite()) {
					return false, cursor
				}
				continue
			}
			if seg.EndPoint1().Equal(cursor) {
				if seg.BlockedForth() {
					return false, cursor
				}
				cursor = seg.EndPoint2()
			} else {
				if seg.BlockedOpposite() {
					return false, cursor
				}
				cursor = seg.EndPoint1()
			}
		case *Route:
			ok, end := seg.traversableFrom(cursor)
			if !ok {
				return false, cursor
			}
			cursor = end
		}
	}
	return true, cursor
}

// LocationsVisited returns every location this route passes through, in
// travel order, with nested routes flattened in place. An empty route visits
// only its start location. Fails when a non-empty segment chain is
// inconsistent.
func (r *Route) LocationsVisited() ([]Endpoint, error) {
	if len(r.segments) == 0 {
		return []Endpoint{r.startLocation}, nil
	}
	if !r.HasProperSegments() {
		return nil, errors.Wrap(ErrInvalidState, "improper segment chain")
	}
	return r.locationsFrom(r.startLocation), nil
}

func (r *Route) locationsFrom(from Endpoint) []Endpoint {
	locations := []Endpoint{from}
	cursor := from
	for _, segment := range r.segments {
		switch seg := segment.(type) {
		case *Road:
			next, _ := traverseRoad(seg, cursor)
			locations = append(locations, next)
			cursor = next
		case *Route:
			nested := seg.locationsFrom(cursor)
			locations = append(locations, nested[1:]...)
			cursor = nested[len(nested)-1]
		}
	}
	return locations
}

// AddSegment attaches the given segment at the end of this route. The whole
// chain is re-validated after the append; when it does not hold, the segment
// is taken out again and an error is returned.
func (r *Route) AddSegment(segment Segment) error {
	if !r.CanHaveAsSegment(segment) {
		return errors.Wrap(ErrSegmentMismatch, "segment does not fit at route end")
	}
	r.segments = append(r.segments, segment)
	r.register(segment)
	if !r.HasProperSegments() {
		r.segments = r.segments[:len(r.segments)-1]
		r.unregister(segment)
		return errors.Wrap(ErrInvalidState, "appending would break segment chain")
	}
	return nil
}

// RemoveSegment removes the first occurrence of the given segment. Removing
// a segment the route does not have is a caller bug. When removal would
// leave the remaining non-empty chain disconnected, the segment is put back
// and an error is returned.
func (r *Route) RemoveSegment(segment Segment) error {
	for i, candidate := range r.segments {
		if candidate == segment {
			return r.RemoveSegmentAt(i)
		}
	}
	panic("segment not part of route")
}

// RemoveSegmentAt removes the segment at the given position. An out-of-range
// index is a caller bug. When removal would leave the remaining non-empty
// chain disconnected, the segment is put back and an error is returned.
func (r *Route) RemoveSegmentAt(index int) error {
	if index < 0 || index >= len(r.segments) {
		panic("segment index out of range")
	}
	removed := r.segments[index]
	r.segments = append(r.segments[:index], r.segments[index+1:]...)
	if len(r.segments) > 0 && !r.HasProperSegments() {
		r.segments = append(r.segments, nil)
		copy(r.segments[index+1:], r.segments[index:])
		r.segments[index] = removed
		return errors.Wrap(ErrInvalidState, "removal would break segment chain")
	}
	r.unregister(removed)
	return nil
}

// ChangeSegment replaces the segment at the given position with another
// segment spanning the same pair of locations. An out-of-range index or a
// replacement spanning different locations is a caller bug. When the
// replacement leaves the chain disconnected, the old segment is restored and
// an error is returned.
func (r *Route) ChangeSegment(index int, segment Segment) error {
	if index < 0 || index >= len(r.segments) {
		panic("segment index out of range")
	}
	if segment == nil {
		panic("nil replacement segment")
	}
	old := r.segments[index]
	oldA, oldB := segmentEndPoints(old)
	newA, newB := segmentEndPoints(segment)
	if !samePair(oldA, oldB, newA, newB) {
		panic("replacement segment spans different locations")
	}
	r.segments[index] = segment
	r.register(segment)
	r.unregister(old)
	if !r.HasProperSegments() {
		r.segments[index] = old
		r.register(old)
		r.unregister(segment)
		return errors.Wrap(ErrInvalidState, "replacement would break segment chain")
	}
	return nil
}

func samePair(a1, a2, b1, b2 Endpoint) bool {
	if a1.Equal(b1) && a2.Equal(b2) {
		return true
	}
	return a1.Equal(b2) && a2.Equal(b1)
}

// register records the back reference from the given segment to this route.
// Roads keep a set of using routes, so duplicate occurrences register once;
// nested routes track one user entry per occurrence.
func (r *Route) register(segment Segment) {
	switch seg := segment.(type) {
	case *Road:
		if !seg.hasAsRoute(r) {
			seg.addRoute(r)
		}
	case *Route:
		seg.usedBy = append(seg.usedBy, r)
	}
}

// unregister drops the back reference for one removed occurrence of the
// given segment. A road stays referenced while other occurrences remain.
func (r *Route) unregister(segment Segment) {
	switch seg := segment.(type) {
	case *Road:
		for _, remaining := range r.segments {
			if remaining == segment {
				return
			}
		}
		seg.removeRoute(r)
	case *Route:
		for i, user := range seg.usedBy {
			if user == r {
				seg.usedBy = append(seg.usedBy[:i], seg.usedBy[i+1:]...)
				return
			}
		}
	}
}

// detachRoad forcibly removes every occurrence of the given road from this
// route without chain validation. Used when the road is being terminated.
func (r *Route) detachRoad(road *Road) {
	r.detachAll(road)
}

// detachAll removes every occurrence of the given segment without chain
// validation.
func (r *Route) detachAll(segment Segment) {
	kept := r.segments[:0]
	for _, candidate := range r.segments {
		if candidate != segment {
			kept = append(kept, candidate)
		}
	}
	r.segments = kept
}

// Terminate tears this route down: it is removed from every route using it
// as a segment and every segment it currently has is terminated in turn.
// Idempotent.
func (r *Route) Terminate() {
	if r.terminated {
		return
	}
	r.terminated = true
	users := make([]*Route, len(r.usedBy))
	copy(users, r.usedBy)
	r.usedBy = nil
	for _, user := range users {
		user.detachAll(r)
	}
	// Terminating a segment removes it from this route as a side effect,
	// so the cascade runs over a snapshot.
	old := make([]Segment, len(r.segments))
	copy(old, r.segments)
	for _, segment := range old {
		segment.Terminate()
	}
	r.segments = nil
}

// IsTerminated reports whether this route has been terminated.
func (r *Route) IsTerminated() bool {
	return r.terminated
}

// HasAsSubSegment checks whether the given segment is this route itself, one
// of its segments, or a subsegment of one of its nested routes.
func (r *Route) HasAsSubSegment(other Segment) bool {
	if Segment(r) == other {
		return true
	}
	for _, segment := range r.segments {
		if segment == other {
			return true
		}
		if nested, ok := segment.(*Route); ok && nested.HasAsSubSegment(other) {
			return true
		}
	}
	return false
}
