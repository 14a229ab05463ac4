package roadnet

// Segment is a unit of a route: either a road or a nested route.
type Segment interface {
	// Terminate tears the segment down. Idempotent.
	Terminate()
	// IsTerminated reports whether the segment has been terminated.
	IsTerminated() bool
	// HasAsSubSegment checks whether the given segment is this segment or,
	// for routes, contained in it directly or transitively. Used to keep
	// routes from ever containing themselves.
	HasAsSubSegment(other Segment) bool
}

// segmentEndPoints returns the two boundary points of a segment: the end
// points of a road, or the start and derived end location of a route.
func segmentEndPoints(seg Segment) (Endpoint, Endpoint) {
	switch s := seg.(type) {
	case *Road:
		return s.endPoint1, s.endPoint2
	case *Route:
		return s.startLocation, s.EndLocation()
	default:
		panic("Should not happen!")
	}
}
