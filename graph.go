package roadnet

import (
	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// PathGraph is a contraction hierarchies view of a road network. Every
// distinct road end point becomes a vertex; every road contributes one edge
// per currently unblocked direction, weighted by its length in meters.
type PathGraph struct {
	graph  ch.Graph
	ids    map[Endpoint]int64
	points map[int64]Endpoint
}

// BuildPathGraph prepares a contraction hierarchies graph over the given
// network. Blocked directions are left out, so the graph reflects the
// network at build time.
func BuildPathGraph(net *RoadNetwork) (*PathGraph, error) {
	pg := &PathGraph{
		ids:    make(map[Endpoint]int64),
		points: make(map[int64]Endpoint),
	}
	for _, road := range net.Roads() {
		source, err := pg.vertex(road.EndPoint1())
		if err != nil {
			return nil, errors.Wrap(err, "Can not create source vertex")
		}
		target, err := pg.vertex(road.EndPoint2())
		if err != nil {
			return nil, errors.Wrap(err, "Can not create target vertex")
		}
		weight := float64(road.Length())
		if !road.BlockedForth() {
			if err := pg.graph.AddEdge(source, target, weight); err != nil {
				return nil, errors.Wrap(err, "Can not wrap Source and Target vertices as Edge")
			}
		}
		if !road.IsOneWay() && !road.BlockedOpposite() {
			if err := pg.graph.AddEdge(target, source, weight); err != nil {
				return nil, errors.Wrap(err, "Can not wrap Target and Source vertices as Edge")
			}
		}
	}
	pg.graph.PrepareContractionHierarchies()
	return pg, nil
}

func (pg *PathGraph) vertex(point Endpoint) (int64, error) {
	if id, ok := pg.ids[point]; ok {
		return id, nil
	}
	id := int64(len(pg.ids))
	if err := pg.graph.CreateVertex(id); err != nil {
		return 0, err
	}
	pg.ids[point] = id
	pg.points[id] = point
	return id, nil
}

// ShortestPath returns the cheapest travel distance in meters between two
// end points and the end points visited along the way.
func (pg *PathGraph) ShortestPath(from, to Endpoint) (float64, []Endpoint, error) {
	source, ok := pg.ids[from]
	if !ok {
		return 0, nil, errors.Wrapf(ErrInvalidEndpoint, "unknown end point %s", from)
	}
	target, ok := pg.ids[to]
	if !ok {
		return 0, nil, errors.Wrapf(ErrInvalidEndpoint, "unknown end point %s", to)
	}
	cost, rawPath := pg.graph.ShortestPath(source, target)
	if cost < 0 {
		return 0, nil, errors.Wrapf(ErrOperation, "no path between %s and %s", from, to)
	}
	path := make([]Endpoint, 0, len(rawPath))
	for _, id := range rawPath {
		path = append(path, pg.points[id])
	}
	return cost, path, nil
}

// ExportShortcutsToFile stores contraction shortcuts in a CSV file.
func (pg *PathGraph) ExportShortcutsToFile(fname string) error {
	return pg.graph.ExportShortcutsToFile(fname)
}
