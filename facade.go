package roadnet

import (
	"github.com/pkg/errors"
)

// Facade exposes every road and route operation behind a single uniform
// error. Contract violations that surface as panics in the underlying model
// are recovered and reported as operation errors as well, so callers never
// crash on misuse.
type Facade struct {
	Network *RoadNetwork
}

// NewFacade returns a facade over a fresh road network.
func NewFacade() *Facade {
	return &Facade{Network: NewRoadNetwork()}
}

// guard converts a recovered panic into an operation error.
func guard(err *error) {
	if cause := recover(); cause != nil {
		*err = errors.Wrapf(ErrOperation, "%v", cause)
	}
}

func operationError(cause error) error {
	return errors.Wrap(ErrOperation, cause.Error())
}

// CreateOneWayRoad creates a one-way road traversable from the first end
// point to the second one.
func (f *Facade) CreateOneWayRoad(identification string, endPoint1, endPoint2 Endpoint, length int, speedLimit, averageSpeed float64) (road *Road, err error) {
	defer guard(&err)
	road, cause := f.Network.CreateOneWayRoad(identification, endPoint1, endPoint2, length, speedLimit, averageSpeed)
	if cause != nil {
		return nil, operationError(cause)
	}
	return road, nil
}

// CreateOneWayRoadDefaultLimit creates a one-way road with the default
// speed limit.
func (f *Facade) CreateOneWayRoadDefaultLimit(identification string, endPoint1, endPoint2 Endpoint, length int, averageSpeed float64) (*Road, error) {
	return f.CreateOneWayRoad(identification, endPoint1, endPoint2, length, DefaultSpeedLimit, averageSpeed)
}

// CreateTwoWayRoad creates a road traversable in both directions.
func (f *Facade) CreateTwoWayRoad(identification string, endPoint1, endPoint2 Endpoint, length int, speedLimit, averageSpeed float64) (road *Road, err error) {
	defer guard(&err)
	road, cause := f.Network.CreateTwoWayRoad(identification, endPoint1, endPoint2, length, speedLimit, averageSpeed)
	if cause != nil {
		return nil, operationError(cause)
	}
	return road, nil
}

// CreateTwoWayRoadDefaultLimit creates a two-way road with the default
// speed limit.
func (f *Facade) CreateTwoWayRoadDefaultLimit(identification string, endPoint1, endPoint2 Endpoint, length int, averageSpeed float64) (*Road, error) {
	return f.CreateTwoWayRoad(identification, endPoint1, endPoint2, length, DefaultSpeedLimit, averageSpeed)
}

// TerminateRoad terminates the given road.
func (f *Facade) TerminateRoad(road *Road) (err error) {
	defer guard(&err)
	road.Terminate()
	return nil
}

// IsTerminatedRoad reports whether the given road has been terminated.
func (f *Facade) IsTerminatedRoad(road *Road) bool {
	return road.IsTerminated()
}

// RoadIdentification returns the identification of the given road.
func (f *Facade) RoadIdentification(road *Road) string {
	return road.Identification()
}

// ChangeRoadIdentification renames the given road.
func (f *Facade) ChangeRoadIdentification(road *Road, identification string) (err error) {
	defer guard(&err)
	if cause := road.SetIdentification(identification); cause != nil {
		return operationError(cause)
	}
	return nil
}

// RoadEndPoints returns both end points of the given road.
func (f *Facade) RoadEndPoints(road *Road) [2]Endpoint {
	return road.EndPoints()
}

// RoadStartLocations returns the end points through which a route may enter
// the given road.
func (f *Facade) RoadStartLocations(road *Road) []Endpoint {
	return road.ValidStartLocations()
}

// RoadEndLocations returns the end points through which a route may leave
// the given road.
func (f *Facade) RoadEndLocations(road *Road) []Endpoint {
	return road.ValidEndLocations()
}

// RoadLength returns the length of the given road in meters.
func (f *Facade) RoadLength(road *Road) int {
	return road.Length()
}

// ChangeRoadLength changes the length of the given road, repairing invalid
// values.
func (f *Facade) ChangeRoadLength(road *Road, length int) {
	road.SetLength(length)
}

// RoadSpeedLimit returns the speed limit of the given road.
func (f *Facade) RoadSpeedLimit(road *Road) float64 {
	return road.SpeedLimit()
}

// ChangeRoadSpeedLimit changes the speed limit of the given road.
func (f *Facade) ChangeRoadSpeedLimit(road *Road, speedLimit float64) (err error) {
	defer guard(&err)
	if cause := road.SetSpeedLimit(speedLimit); cause != nil {
		return operationError(cause)
	}
	return nil
}

// RoadAverageSpeed returns the average speed of the given road.
func (f *Facade) RoadAverageSpeed(road *Road) float64 {
	return road.AverageSpeed()
}

// ChangeRoadAverageSpeed changes the average speed of the given road.
func (f *Facade) ChangeRoadAverageSpeed(road *Road, averageSpeed float64) (err error) {
	defer guard(&err)
	if cause := road.SetAverageSpeed(averageSpeed); cause != nil {
		return operationError(cause)
	}
	return nil
}

// RoadDelayInDirection returns the current delay of the given road in the
// forward direction when forth is true, in the opposite direction otherwise.
func (f *Facade) RoadDelayInDirection(road *Road, forth bool) (delay float64, err error) {
	defer guard(&err)
	if forth {
		return road.DelayForth(), nil
	}
	return road.DelayOpposite(), nil
}

// ChangeRoadDelayInDirection sets the current delay of the given road in the
// chosen direction.
func (f *Facade) ChangeRoadDelayInDirection(road *Road, delay float64, forth bool) (err error) {
	defer guard(&err)
	if forth {
		road.SetDelayForth(delay)
	} else {
		road.SetDelayOpposite(delay)
	}
	return nil
}

// RoadIsBlocked reports whether the given road is blocked in the chosen
// direction.
func (f *Facade) RoadIsBlocked(road *Road, forth bool) (blocked bool, err error) {
	defer guard(&err)
	if forth {
		return road.BlockedForth(), nil
	}
	return road.BlockedOpposite(), nil
}

// ChangeRoadBlockedState blocks or unblocks the given road in the chosen
// direction.
func (f *Facade) ChangeRoadBlockedState(road *Road, blocked, forth bool) (err error) {
	defer guard(&err)
	if forth {
		road.SetBlockedForth(blocked)
	} else {
		road.SetBlockedOpposite(blocked)
	}
	return nil
}

// CreateRoute builds a route starting at the given location with the given
// segments.
func (f *Facade) CreateRoute(startLocation Endpoint, segments ...Segment) (route *Route, err error) {
	defer guard(&err)
	route, cause := NewRoute(startLocation, segments...)
	if cause != nil {
		return nil, operationError(cause)
	}
	return route, nil
}

// TerminateRoute terminates the given route.
func (f *Facade) TerminateRoute(route *Route) (err error) {
	defer guard(&err)
	route.Terminate()
	return nil
}

// RouteStartLocation returns where the given route starts.
func (f *Facade) RouteStartLocation(route *Route) Endpoint {
	return route.StartLocation()
}

// RouteEndLocation returns where the given route ends.
func (f *Facade) RouteEndLocation(route *Route) Endpoint {
	return route.EndLocation()
}

// RouteSegments returns the segment sequence of the given route.
func (f *Facade) RouteSegments(route *Route) []Segment {
	return route.Segments()
}

// AddRouteSegment attaches a segment at the end of the given route.
func (f *Facade) AddRouteSegment(route *Route, segment Segment) (err error) {
	defer guard(&err)
	if cause := route.AddSegment(segment); cause != nil {
		return operationError(cause)
	}
	return nil
}

// RemoveRouteSegment removes the segment at the given position of the given
// route.
func (f *Facade) RemoveRouteSegment(route *Route, index int) (err error) {
	defer guard(&err)
	if cause := route.RemoveSegmentAt(index); cause != nil {
		return operationError(cause)
	}
	return nil
}

// ChangeRouteSegment replaces the segment at the given position of the given
// route with another segment spanning the same locations.
func (f *Facade) ChangeRouteSegment(route *Route, index int, segment Segment) (err error) {
	defer guard(&err)
	if cause := route.ChangeSegment(index, segment); cause != nil {
		return operationError(cause)
	}
	return nil
}

// RouteTotalLength returns the summed road length of the given route.
func (f *Facade) RouteTotalLength(route *Route) (length int, err error) {
	defer guard(&err)
	length, cause := route.TotalLength()
	if cause != nil {
		return 0, operationError(cause)
	}
	return length, nil
}

// IsRouteTraversable reports whether the given route can currently be
// traversed from start to end.
func (f *Facade) IsRouteTraversable(route *Route) (traversable bool, err error) {
	defer guard(&err)
	traversable, cause := route.IsTraversable()
	if cause != nil {
		return false, operationError(cause)
	}
	return traversable, nil
}

// RouteLocations returns every location the given route passes through, in
// travel order.
func (f *Facade) RouteLocations(route *Route) (locations []Endpoint, err error) {
	defer guard(&err)
	locations, cause := route.LocationsVisited()
	if cause != nil {
		return nil, operationError(cause)
	}
	return locations, nil
}
