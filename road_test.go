package roadnet

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pointA = Endpoint{Lon: 10.0, Lat: 50.0}
	pointB = Endpoint{Lon: 11.0, Lat: 50.5}
	pointC = Endpoint{Lon: 12.0, Lat: 51.0}
	pointD = Endpoint{Lon: 13.0, Lat: 51.5}
)

func TestCreateRoadValidation(t *testing.T) {
	net := NewRoadNetwork()

	road, err := net.CreateTwoWayRoad("N1", pointA, pointB, 4000, 33.0, 20.0)
	require.NoError(t, err)
	assert.Equal(t, "N1", road.Identification())
	assert.Equal(t, 4000, road.Length())
	assert.False(t, road.IsOneWay())

	_, err = net.CreateTwoWayRoad("N1", pointB, pointC, 100, 33.0, 20.0)
	assert.True(t, errors.Is(err, ErrDuplicateIdentification))

	_, err = net.CreateTwoWayRoad("n2", pointA, pointB, 100, 33.0, 20.0)
	assert.True(t, errors.Is(err, ErrInvalidIdentification))

	_, err = net.CreateTwoWayRoad("N2X", pointA, pointB, 100, 33.0, 20.0)
	assert.True(t, errors.Is(err, ErrInvalidIdentification))

	_, err = net.CreateTwoWayRoad("N2", Endpoint{Lon: -1.0, Lat: 10.0}, pointB, 100, 33.0, 20.0)
	assert.True(t, errors.Is(err, ErrInvalidEndpoint))

	_, err = net.CreateTwoWayRoad("N2", pointA, Endpoint{Lon: 10.0, Lat: 70.001}, 100, 33.0, 20.0)
	assert.True(t, errors.Is(err, ErrInvalidEndpoint))

	_, err = net.CreateTwoWayRoad("N2", pointA, pointB, 100, 0.0, 0.0)
	assert.True(t, errors.Is(err, ErrInvalidSpeedLimit))

	_, err = net.CreateTwoWayRoad("N2", pointA, pointB, 100, SpeedOfLight+1, 20.0)
	assert.True(t, errors.Is(err, ErrInvalidSpeedLimit))

	_, err = net.CreateTwoWayRoad("N2", pointA, pointB, 100, 33.0, 34.0)
	assert.True(t, errors.Is(err, ErrInvalidAverageSpeed))

	_, err = net.CreateTwoWayRoad("N2", pointA, pointB, 100, 33.0, -0.5)
	assert.True(t, errors.Is(err, ErrInvalidAverageSpeed))
}

func TestIdentificationRules(t *testing.T) {
	net := NewRoadNetwork()

	assert.True(t, net.IsValidIdentification("A1"))
	assert.True(t, net.IsValidIdentification("Z99"))
	assert.False(t, net.IsValidIdentification("A"))
	assert.False(t, net.IsValidIdentification("A123"))
	assert.False(t, net.IsValidIdentification("1A"))
	assert.False(t, net.IsValidIdentification(""))

	require.NoError(t, net.AllowIdentificationLengths(4))
	assert.True(t, net.IsValidIdentification("A123"))
	// Defaults survive every reconfiguration.
	assert.True(t, net.IsValidIdentification("A1"))

	// A second call drops the previous custom length.
	require.NoError(t, net.AllowIdentificationLengths(5))
	assert.False(t, net.IsValidIdentification("A123"))
	assert.True(t, net.IsValidIdentification("A1234"))

	err := net.AllowIdentificationLengths(0)
	assert.True(t, errors.Is(err, ErrInvalidLength))
	err = net.AllowIdentificationLengths(-3)
	assert.True(t, errors.Is(err, ErrInvalidLength))

	net.AllowIdentificationCharacters('a', '!')
	assert.True(t, net.IsValidIdentification("Aa!"))
	assert.True(t, net.IsValidIdentification("A1a"))
	net.AllowIdentificationCharacters('b')
	assert.False(t, net.IsValidIdentification("Aa!"))
	assert.True(t, net.IsValidIdentification("Ab1"))
}

func TestIdentificationRulesAreIndependentPerNetwork(t *testing.T) {
	first := NewRoadNetwork()
	second := NewRoadNetwork()

	require.NoError(t, first.AllowIdentificationLengths(6))
	assert.True(t, first.IsValidIdentification("A12345"))
	assert.False(t, second.IsValidIdentification("A12345"))

	_, err := first.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)
	// Same identification is free in an unrelated network.
	_, err = second.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)
}

func TestSetIdentification(t *testing.T) {
	net := NewRoadNetwork()
	road, err := net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)
	other, err := net.CreateTwoWayRoad("N2", pointB, pointC, 100, 33.0, 20.0)
	require.NoError(t, err)

	assert.True(t, errors.Is(road.SetIdentification("N2"), ErrDuplicateIdentification))
	assert.True(t, errors.Is(road.SetIdentification("bad"), ErrInvalidIdentification))

	require.NoError(t, road.SetIdentification("N3"))
	assert.Equal(t, "N3", road.Identification())
	assert.False(t, net.HasIdentification("N1"))

	// The old identification is free again.
	require.NoError(t, other.SetIdentification("N1"))
}

func TestLengthRepair(t *testing.T) {
	net := NewRoadNetwork()
	road, err := net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)

	road.SetLength(4000)
	assert.Equal(t, 4000, road.Length())

	road.SetLength(-5)
	assert.Equal(t, 5, road.Length())

	road.SetLength(0)
	assert.Equal(t, 1, road.Length())

	road.SetLength(math.MaxInt32)
	assert.Equal(t, math.MaxInt32-1, road.Length())

	road.SetLength(math.MinInt32)
	assert.Equal(t, math.MaxInt32-1, road.Length())

	road.SetLength(math.MinInt32 + 2)
	assert.Equal(t, -(math.MinInt32 + 2), road.Length())

	created, err := net.CreateTwoWayRoad("N2", pointA, pointB, -250, 33.0, 20.0)
	require.NoError(t, err)
	assert.Equal(t, 250, created.Length())
}

func TestSpeedConsistency(t *testing.T) {
	net := NewRoadNetwork()
	road, err := net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 30.0)
	require.NoError(t, err)

	// A limit below the current average speed is rejected first.
	err = road.SetSpeedLimit(25.0)
	assert.True(t, errors.Is(err, ErrInvalidAverageSpeed))
	assert.Equal(t, 33.0, road.SpeedLimit())

	require.NoError(t, road.SetAverageSpeed(20.0))
	require.NoError(t, road.SetSpeedLimit(25.0))

	err = road.SetAverageSpeed(25.5)
	assert.True(t, errors.Is(err, ErrInvalidAverageSpeed))
	assert.Equal(t, 20.0, road.AverageSpeed())

	require.NoError(t, road.SetAverageSpeed(0.0))
	assert.True(t, errors.Is(road.SetSpeedLimit(0.0), ErrInvalidSpeedLimit))
}

func TestDelayAndBlockedDirections(t *testing.T) {
	net := NewRoadNetwork()
	twoWay, err := net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)
	oneWay, err := net.CreateOneWayRoad("A1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)

	twoWay.SetDelayForth(10.5)
	twoWay.SetDelayOpposite(3.0)
	assert.Equal(t, 10.5, twoWay.DelayForth())
	assert.Equal(t, 3.0, twoWay.DelayOpposite())

	twoWay.SetBlockedOpposite(true)
	assert.False(t, twoWay.BlockedForth())
	assert.True(t, twoWay.BlockedOpposite())

	oneWay.SetDelayForth(1.0)
	assert.Equal(t, 1.0, oneWay.DelayForth())

	assert.Panics(t, func() { oneWay.DelayOpposite() })
	assert.Panics(t, func() { oneWay.SetDelayOpposite(0.0) })
	assert.Panics(t, func() { oneWay.BlockedOpposite() })
	assert.Panics(t, func() { oneWay.SetBlockedOpposite(true) })
	assert.Panics(t, func() { twoWay.SetDelayForth(-1.0) })
	assert.Panics(t, func() { twoWay.SetDelayOpposite(-0.5) })
}

func TestValidStartAndEndLocations(t *testing.T) {
	net := NewRoadNetwork()
	oneWay, err := net.CreateOneWayRoad("A1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)
	twoWay, err := net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)

	assert.Equal(t, []Endpoint{pointA}, oneWay.ValidStartLocations())
	assert.Equal(t, []Endpoint{pointB}, oneWay.ValidEndLocations())
	assert.Equal(t, []Endpoint{pointA, pointB}, twoWay.ValidStartLocations())
	assert.Equal(t, []Endpoint{pointA, pointB}, twoWay.ValidEndLocations())
}

func TestTerminateRoad(t *testing.T) {
	net := NewRoadNetwork()
	road, err := net.CreateTwoWayRoad("N1", pointA, pointB, 4000, 33.0, 20.0)
	require.NoError(t, err)

	road.Terminate()
	assert.True(t, road.IsTerminated())
	assert.False(t, net.HasIdentification("N1"))
	assert.Equal(t, 1, road.Length())
	assert.Equal(t, 0.1, road.SpeedLimit())
	assert.Equal(t, 0.1, road.AverageSpeed())

	// Identification is reusable afterwards.
	_, err = net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)

	// Idempotent.
	road.Terminate()
	assert.True(t, road.IsTerminated())

	// A terminated road cannot be renamed back into the registry.
	err = road.SetIdentification("N9")
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.False(t, net.HasIdentification("N9"))
}

func TestTerminateRoadDetachesFromRoutes(t *testing.T) {
	net := NewRoadNetwork()
	ab, err := net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)
	bc, err := net.CreateTwoWayRoad("N2", pointB, pointC, 100, 33.0, 20.0)
	require.NoError(t, err)

	route, err := NewRoute(pointA, ab, bc)
	require.NoError(t, err)
	require.True(t, route.HasProperSegments())

	bc.Terminate()
	assert.Empty(t, bc.Routes())
	assert.Equal(t, []Segment{ab}, route.Segments())
}
