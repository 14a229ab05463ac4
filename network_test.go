package roadnet

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoadsOrderedByIdentification(t *testing.T) {
	net := NewRoadNetwork()
	_, err := net.CreateTwoWayRoad("N2", pointB, pointC, 100, 33.0, 20.0)
	require.NoError(t, err)
	_, err = net.CreateTwoWayRoad("N1", pointA, pointB, 100, 33.0, 20.0)
	require.NoError(t, err)
	_, err = net.CreateOneWayRoad("A1", pointA, pointC, 100, 33.0, 20.0)
	require.NoError(t, err)

	roads := net.Roads()
	require.Len(t, roads, 3)
	assert.Equal(t, "A1", roads[0].Identification())
	assert.Equal(t, "N1", roads[1].Identification())
	assert.Equal(t, "N2", roads[2].Identification())

	road, ok := net.Road("N1")
	require.True(t, ok)
	assert.Equal(t, pointA, road.EndPoint1())
	_, ok = net.Road("XX")
	assert.False(t, ok)
}

func TestExportToCSV(t *testing.T) {
	net := NewRoadNetwork()
	_, err := net.CreateOneWayRoad("A1", pointA, pointB, 10000, 27.5, 22.0)
	require.NoError(t, err)
	road, err := net.CreateTwoWayRoad("N1", pointB, pointC, 4000, 33.0, 20.0)
	require.NoError(t, err)
	road.SetBlockedOpposite(true)

	fname := filepath.Join(t.TempDir(), "roads.csv")
	require.NoError(t, net.ExportToCSV(fname))

	file, err := os.Open(fname)
	require.NoError(t, err)
	defer file.Close()
	reader := csv.NewReader(file)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"identification", "oneway", "length_meters", "speed_limit", "average_speed", "blocked_forth", "blocked_opposite", "geom"}, records[0])
	assert.Equal(t, "A1", records[1][0])
	assert.Equal(t, "true", records[1][1])
	assert.Equal(t, "10000", records[1][2])
	// One-way roads carry no opposite blocked state.
	assert.Equal(t, "-", records[1][6])
	assert.Equal(t, "N1", records[2][0])
	assert.Equal(t, "true", records[2][6])
	assert.Contains(t, records[2][7], "LINESTRING")
}

func TestExportToGeoJSON(t *testing.T) {
	net := NewRoadNetwork()
	_, err := net.CreateTwoWayRoad("N1", pointA, pointB, 4000, 33.0, 20.0)
	require.NoError(t, err)

	b, err := net.ExportToGeoJSON()
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &payload))
	assert.Equal(t, "FeatureCollection", payload["type"])
	features := payload["features"].([]interface{})
	require.Len(t, features, 1)
}

func TestConverters(t *testing.T) {
	assert.Equal(t, "POINT(10.000000 50.000000)", PrepareWKTPoint(pointA))
	line := PrepareWKTLinestring([]Endpoint{pointA, pointB})
	assert.Equal(t, "LINESTRING(10.000000 50.000000,11.000000 50.500000)", line)

	geojsonPoint := PrepareGeoJSONPoint(pointA)
	assert.Contains(t, geojsonPoint, `"type":"Point"`)
	geojsonLine := PrepareGeoJSONLinestring([]Endpoint{pointA, pointB})
	assert.Contains(t, geojsonLine, `"type":"LineString"`)
}

func TestRouteGeometry(t *testing.T) {
	net := NewRoadNetwork()
	ab, err := net.CreateTwoWayRoad("N1", pointA, pointB, 1000, 33.0, 20.0)
	require.NoError(t, err)
	bc, err := net.CreateTwoWayRoad("N2", pointB, pointC, 1000, 33.0, 20.0)
	require.NoError(t, err)

	route, err := NewRoute(pointA, ab, bc)
	require.NoError(t, err)

	wktGeom, err := route.WKT()
	require.NoError(t, err)
	assert.Equal(t, "LINESTRING(10.000000 50.000000,11.000000 50.500000,12.000000 51.000000)", wktGeom)

	geojsonGeom, err := route.GeoJSON()
	require.NoError(t, err)
	assert.Contains(t, geojsonGeom, `"type":"LineString"`)

	assert.Contains(t, ab.WKT(), "LINESTRING")
}

func TestLoaderConfigurationTags(t *testing.T) {
	cfg := NewDefaultLoaderConfiguration()
	assert.Equal(t, "highway", cfg.EntityName)
	assert.True(t, cfg.CheckTag("residential"))
	assert.False(t, cfg.CheckTag("footway"))

	cfg.Tags = nil
	assert.True(t, cfg.CheckTag("anything"))
}

func TestParseMaxspeed(t *testing.T) {
	assert.Equal(t, DefaultSpeedLimit, parseMaxspeed("", DefaultSpeedLimit))
	assert.Equal(t, DefaultSpeedLimit, parseMaxspeed("none", DefaultSpeedLimit))
	assert.InDelta(t, 16.666, parseMaxspeed("60", DefaultSpeedLimit), 0.001)
	assert.InDelta(t, 13.411, parseMaxspeed("30 mph", DefaultSpeedLimit), 0.001)
}
