package roadnet

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []Endpoint) string {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	b, err := geojson.NewLineStringGeometry(pts2d).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt Endpoint) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// ExportToGeoJSON writes every road of this network as a feature collection
// of linestrings with road attributes attached as properties.
func (net *RoadNetwork) ExportToGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, road := range net.Roads() {
		feature := geojson.NewLineStringFeature([][]float64{
			{road.endPoint1.Lon, road.endPoint1.Lat},
			{road.endPoint2.Lon, road.endPoint2.Lat},
		})
		feature.SetProperty("identification", road.identification)
		feature.SetProperty("oneway", road.oneway)
		feature.SetProperty("length_meters", road.length)
		feature.SetProperty("speed_limit", road.speedLimit)
		feature.SetProperty("average_speed", road.averageSpeed)
		fc.AddFeature(feature)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal feature collection")
	}
	return b, nil
}

// GeoJSON returns the geometry of this route as a GeoJSON linestring over
// every location it visits. Fails when the segment chain is inconsistent.
func (r *Route) GeoJSON() (string, error) {
	locations, err := r.LocationsVisited()
	if err != nil {
		return "", errors.Wrap(err, "Can't collect route locations")
	}
	return PrepareGeoJSONLinestring(locations), nil
}
