package roadnet

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// SpeedOfLight is the upper bound for any speed limit (meters per second).
	SpeedOfLight = 299792458.0
	// DefaultSpeedLimit is used when a road is created without an explicit speed limit.
	DefaultSpeedLimit = 19.5

	// Road lengths live in the 32-bit range of the historical data model.
	maxRoadLength = math.MaxInt32
	minRoadLength = math.MinInt32

	// Terminal marker values. Terminated roads stay structurally valid.
	terminatedLength = 1
	terminatedSpeed  = 0.1
)

// Road is a directed-capable edge between two endpoints. A one-way road is
// traversable from its first end point to its second end point only; a
// two-way road carries independent delay and blocked state per direction.
type Road struct {
	net            *RoadNetwork
	identification string
	endPoint1      Endpoint
	endPoint2      Endpoint
	oneway         bool
	length         int
	speedLimit     float64
	averageSpeed   float64

	delayForth      float64
	delayOpposite   float64
	blockedForth    bool
	blockedOpposite bool

	routes     map[*Route]struct{}
	terminated bool
}

// CreateOneWayRoad registers a new one-way road in this network, traversable
// from the first end point to the second end point.
func (net *RoadNetwork) CreateOneWayRoad(identification string, endPoint1, endPoint2 Endpoint, length int, speedLimit, averageSpeed float64) (*Road, error) {
	return net.createRoad(identification, endPoint1, endPoint2, length, speedLimit, averageSpeed, true)
}

// CreateTwoWayRoad registers a new two-way road in this network, traversable
// in both directions with independent delay and blocked state.
func (net *RoadNetwork) CreateTwoWayRoad(identification string, endPoint1, endPoint2 Endpoint, length int, speedLimit, averageSpeed float64) (*Road, error) {
	return net.createRoad(identification, endPoint1, endPoint2, length, speedLimit, averageSpeed, false)
}

func (net *RoadNetwork) createRoad(identification string, endPoint1, endPoint2 Endpoint, length int, speedLimit, averageSpeed float64, oneway bool) (*Road, error) {
	if !IsValidEndpoint(endPoint1) {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "first end point %s", endPoint1)
	}
	if !IsValidEndpoint(endPoint2) {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "second end point %s", endPoint2)
	}
	if !net.IsValidIdentification(identification) {
		return nil, errors.Wrap(ErrInvalidIdentification, identification)
	}
	if net.HasIdentification(identification) {
		return nil, errors.Wrap(ErrDuplicateIdentification, identification)
	}
	if !isValidSpeedLimit(speedLimit) {
		return nil, errors.Wrapf(ErrInvalidSpeedLimit, "%f", speedLimit)
	}
	if !isValidAverageSpeed(averageSpeed, speedLimit) {
		return nil, errors.Wrapf(ErrInvalidAverageSpeed, "%f against limit %f", averageSpeed, speedLimit)
	}
	road := &Road{
		net:            net,
		identification: identification,
		endPoint1:      endPoint1,
		endPoint2:      endPoint2,
		oneway:         oneway,
		speedLimit:     speedLimit,
		averageSpeed:   averageSpeed,
		routes:         make(map[*Route]struct{}),
	}
	road.SetLength(length)
	net.roads[identification] = road
	return road, nil
}

func canHaveAsLength(length int) bool {
	return length > 0 && length < maxRoadLength
}

func isValidSpeedLimit(speedLimit float64) bool {
	return speedLimit > 0 && speedLimit <= SpeedOfLight
}

func isValidAverageSpeed(averageSpeed, speedLimit float64) bool {
	return averageSpeed >= 0 && averageSpeed <= speedLimit
}

func isValidDelay(delay float64) bool {
	return delay >= 0
}

// Identification returns the identification of this road.
func (r *Road) Identification() string {
	return r.identification
}

// SetIdentification renames this road, releasing its old identification for
// reuse. The new identification must match the network's format rules and
// must not belong to another active road.
func (r *Road) SetIdentification(identification string) error {
	if r.terminated {
		return errors.Wrap(ErrInvalidState, "terminated road cannot be renamed")
	}
	if !r.net.IsValidIdentification(identification) {
		return errors.Wrap(ErrInvalidIdentification, identification)
	}
	if r.net.HasIdentification(identification) {
		return errors.Wrap(ErrDuplicateIdentification, identification)
	}
	r.net.releaseIdentification(r.identification)
	r.identification = identification
	r.net.roads[identification] = r
	return nil
}

// EndPoint1 returns the first end point of this road.
func (r *Road) EndPoint1() Endpoint {
	return r.endPoint1
}

// EndPoint2 returns the second end point of this road.
func (r *Road) EndPoint2() Endpoint {
	return r.endPoint2
}

// EndPoints returns both end points of this road.
func (r *Road) EndPoints() [2]Endpoint {
	return [2]Endpoint{r.endPoint1, r.endPoint2}
}

// IsOneWay reports whether this road only supports the forward direction.
func (r *Road) IsOneWay() bool {
	return r.oneway
}

// Length returns the length of this road in meters.
func (r *Road) Length() int {
	return r.length
}

// SetLength stores a repaired version of the given length. The repair policy
// of the historical data model is kept bit for bit: a valid length is stored
// as is, a representable negative length is stored as its absolute value,
// zero becomes one, and everything at or beyond the 32-bit fringes becomes
// the largest valid length.
func (r *Road) SetLength(length int) {
	switch {
	case canHaveAsLength(length):
		r.length = length
	case length < 0 && length >= minRoadLength+2:
		r.length = -length
	case length == 0:
		r.length = 1
	default:
		r.length = maxRoadLength - 1
	}
}

// SpeedLimit returns the speed limit of this road in meters per second.
func (r *Road) SpeedLimit() float64 {
	return r.speedLimit
}

// SetSpeedLimit changes the speed limit, failing without applying the change
// when the new limit is out of range or inconsistent with the current
// average speed.
func (r *Road) SetSpeedLimit(speedLimit float64) error {
	if !isValidSpeedLimit(speedLimit) {
		return errors.Wrapf(ErrInvalidSpeedLimit, "%f", speedLimit)
	}
	if !isValidAverageSpeed(r.averageSpeed, speedLimit) {
		return errors.Wrapf(ErrInvalidAverageSpeed, "%f against limit %f", r.averageSpeed, speedLimit)
	}
	r.speedLimit = speedLimit
	return nil
}

// AverageSpeed returns the average speed obtained on this road under
// standard conditions, in meters per second.
func (r *Road) AverageSpeed() float64 {
	return r.averageSpeed
}

// SetAverageSpeed changes the average speed, validated against the current
// speed limit.
func (r *Road) SetAverageSpeed(averageSpeed float64) error {
	if !isValidAverageSpeed(averageSpeed, r.speedLimit) {
		return errors.Wrapf(ErrInvalidAverageSpeed, "%f against limit %f", averageSpeed, r.speedLimit)
	}
	r.averageSpeed = averageSpeed
	return nil
}

// DelayForth returns the current delay in the forward direction, in seconds.
func (r *Road) DelayForth() float64 {
	return r.delayForth
}

// SetDelayForth sets the current delay in the forward direction. The delay
// must be non-negative; violating that is a caller bug.
func (r *Road) SetDelayForth(delay float64) {
	if !isValidDelay(delay) {
		panic("negative delay")
	}
	r.delayForth = delay
}

// DelayOpposite returns the current delay in the opposite direction. Calling
// it on a one-way road is a programming error.
func (r *Road) DelayOpposite() float64 {
	r.mustBeTwoWay()
	return r.delayOpposite
}

// SetDelayOpposite sets the current delay in the opposite direction. Calling
// it on a one-way road is a programming error.
func (r *Road) SetDelayOpposite(delay float64) {
	r.mustBeTwoWay()
	if !isValidDelay(delay) {
		panic("negative delay")
	}
	r.delayOpposite = delay
}

// BlockedForth reports whether the forward direction is currently blocked.
func (r *Road) BlockedForth() bool {
	return r.blockedForth
}

// SetBlockedForth blocks or unblocks the forward direction.
func (r *Road) SetBlockedForth(flag bool) {
	r.blockedForth = flag
}

// BlockedOpposite reports whether the opposite direction is currently
// blocked. Calling it on a one-way road is a programming error.
func (r *Road) BlockedOpposite() bool {
	r.mustBeTwoWay()
	return r.blockedOpposite
}

// SetBlockedOpposite blocks or unblocks the opposite direction. Calling it
// on a one-way road is a programming error.
func (r *Road) SetBlockedOpposite(flag bool) {
	r.mustBeTwoWay()
	r.blockedOpposite = flag
}

func (r *Road) mustBeTwoWay() {
	if r.oneway {
		panic("opposite direction accessed on one-way road " + r.identification)
	}
}

// ValidStartLocations returns the end points through which a route may enter
// this road: only the first end point for a one-way road, both otherwise.
func (r *Road) ValidStartLocations() []Endpoint {
	if r.oneway {
		return []Endpoint{r.endPoint1}
	}
	return []Endpoint{r.endPoint1, r.endPoint2}
}

// ValidEndLocations returns the end points through which a route may leave
// this road: only the second end point for a one-way road, both otherwise.
func (r *Road) ValidEndLocations() []Endpoint {
	if r.oneway {
		return []Endpoint{r.endPoint2}
	}
	return []Endpoint{r.endPoint1, r.endPoint2}
}

// Routes returns the routes currently using this road.
func (r *Road) Routes() []*Route {
	routes := make([]*Route, 0, len(r.routes))
	for route := range r.routes {
		routes = append(routes, route)
	}
	return routes
}

func (r *Road) canHaveAsRoute(route *Route) bool {
	if r.terminated {
		return route == nil
	}
	return route != nil && !route.IsTerminated()
}

func (r *Road) hasAsRoute(route *Route) bool {
	_, ok := r.routes[route]
	return ok
}

func (r *Road) addRoute(route *Route) {
	if !r.canHaveAsRoute(route) {
		panic("inappropriate route for road " + r.identification)
	}
	r.routes[route] = struct{}{}
}

func (r *Road) removeRoute(route *Route) {
	delete(r.routes, route)
}

// Terminate tears this road down: it is removed from every route currently
// using it (every occurrence), its identification is released for reuse and
// its length and speeds are reset to terminal marker values. Idempotent.
func (r *Road) Terminate() {
	if r.terminated {
		return
	}
	r.terminated = true
	oldRoutes := r.Routes()
	r.routes = make(map[*Route]struct{})
	for _, route := range oldRoutes {
		route.detachRoad(r)
	}
	r.net.releaseIdentification(r.identification)
	r.length = terminatedLength
	r.averageSpeed = terminatedSpeed
	r.speedLimit = terminatedSpeed
}

// IsTerminated reports whether this road has been terminated.
func (r *Road) IsTerminated() bool {
	return r.terminated
}

// HasAsSubSegment checks whether the given segment is this road itself.
// Roads have no subsegments.
func (r *Road) HasAsSubSegment(other Segment) bool {
	road, ok := other.(*Road)
	return ok && road == r
}
