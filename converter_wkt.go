package roadnet

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// PrepareWKTLinestring returns WKT representation of LineString
func PrepareWKTLinestring(pts []Endpoint) string {
	ptsStr := make([]string, len(pts))
	for i := range pts {
		ptsStr[i] = fmt.Sprintf("%f %f", pts[i].Lon, pts[i].Lat)
	}
	return fmt.Sprintf("LINESTRING(%s)", strings.Join(ptsStr, ","))
}

// PrepareWKTPoint returns WKT representation of Point
func PrepareWKTPoint(pt Endpoint) string {
	return fmt.Sprintf("POINT(%f %f)", pt.Lon, pt.Lat)
}

// WKT returns the geometry of this road as a WKT linestring.
func (r *Road) WKT() string {
	return PrepareWKTLinestring([]Endpoint{r.endPoint1, r.endPoint2})
}

// WKT returns the geometry of this route as a WKT linestring over every
// location it visits. Fails when the segment chain is inconsistent.
func (r *Route) WKT() (string, error) {
	locations, err := r.LocationsVisited()
	if err != nil {
		return "", errors.Wrap(err, "Can't collect route locations")
	}
	return PrepareWKTLinestring(locations), nil
}
