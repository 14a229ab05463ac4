package roadnet

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
)

const (
	// Kilometers per hour to meters per second.
	kmhToMs = 1.0 / 3.6
)

// LoaderConfiguration narrows which OSM ways become roads and supplies
// fallback speeds for ways without a usable maxspeed tag.
type LoaderConfiguration struct {
	EntityName          string
	Tags                []string
	DefaultSpeedLimit   float64
	DefaultAverageSpeed float64
}

// NewDefaultLoaderConfiguration targets drivable highways with the default
// speed limit.
func NewDefaultLoaderConfiguration() *LoaderConfiguration {
	return &LoaderConfiguration{
		EntityName:          "highway",
		Tags:                []string{"motorway", "trunk", "primary", "secondary", "tertiary", "residential", "unclassified"},
		DefaultSpeedLimit:   DefaultSpeedLimit,
		DefaultAverageSpeed: DefaultSpeedLimit / 2,
	}
}

// CheckTag reports whether the given tag value is accepted. An empty tag
// list accepts everything.
func (cfg *LoaderConfiguration) CheckTag(tag string) bool {
	if len(cfg.Tags) == 0 {
		return true
	}
	for _, t := range cfg.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type loaderWay struct {
	ID     int64
	Nodes  osm.WayNodes
	Oneway bool
	Limit  float64
}

type loaderNode struct {
	useCount int
	node     osm.Node
}

// ImportFromOSMFile builds a road network from a file of PBF-format (in OSM terms)
/*
	File should have PBF (Protocolbuffer Binary Format) extension according to https://github.com/paulmach/osm
*/
func ImportFromOSMFile(fileName string, cfg *LoaderConfiguration) (*RoadNetwork, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	scannerWays := osmpbf.New(context.Background(), f, 4)
	defer scannerWays.Close()

	ways := []loaderWay{}
	nodes := make(map[osm.NodeID]loaderNode)
	nodesSeen := make(map[osm.NodeID]struct{})

	fmt.Printf("Scanning ways...")
	st := time.Now()
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		tagMap := way.TagMap()
		tag, ok := tagMap[cfg.EntityName]
		if !ok {
			continue
		}
		if !cfg.CheckTag(tag) {
			continue
		}
		oneway := false
		if v, ok := tagMap["oneway"]; ok {
			if v == "yes" || v == "1" {
				oneway = true
			}
		}
		preparedWay := loaderWay{
			ID:     int64(way.ID),
			Nodes:  make(osm.WayNodes, len(way.Nodes)),
			Oneway: oneway,
			Limit:  parseMaxspeed(tagMap["maxspeed"], cfg.DefaultSpeedLimit),
		}
		copy(preparedWay.Nodes, way.Nodes)
		ways = append(ways, preparedWay)
		for _, node := range way.Nodes {
			nodesSeen[node.ID] = struct{}{}
		}
	}
	if scannerWays.Err() != nil {
		return nil, errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	fmt.Printf("Done in %v\n\tWays: %d\n", time.Since(st), len(ways))

	// Seek file to start
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}
	scannerNodes := osmpbf.New(context.Background(), f, 4)
	defer scannerNodes.Close()

	fmt.Printf("Scanning nodes...")
	st = time.Now()
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesSeen[node.ID]; ok {
			delete(nodesSeen, node.ID)
			nodes[node.ID] = loaderNode{node: *node}
		}
	}
	if scannerNodes.Err() != nil {
		return nil, errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	fmt.Printf("Done in %v\n\tNodes: %d\n", time.Since(st), len(nodes))

	fmt.Printf("Counting node use cases...")
	st = time.Now()
	for _, way := range ways {
		for i, wayNode := range way.Nodes {
			node, ok := nodes[wayNode.ID]
			if !ok {
				return nil, fmt.Errorf("Missing node with id: %d", wayNode.ID)
			}
			if i == 0 || i == len(way.Nodes)-1 {
				node.useCount += 2
			} else {
				node.useCount++
			}
			nodes[wayNode.ID] = node
		}
	}
	fmt.Printf("Done in %v\n", time.Since(st))

	fmt.Printf("Preparing roads...")
	st = time.Now()
	net := NewRoadNetwork()
	// Generated identifications grow with network size.
	if err := net.AllowIdentificationLengths(2, 3, 4, 5, 6, 7, 8, 9, 10); err != nil {
		return nil, errors.Wrap(err, "Can't set identification lengths")
	}
	roadsNum := 0
	onewayNum := 0
	skipped := 0
	for _, way := range ways {
		var source osm.NodeID
		geometry := []Endpoint{}
		for i, wayNode := range way.Nodes {
			node := nodes[wayNode.ID]
			point := Endpoint{Lat: node.node.Lat, Lon: node.node.Lon}
			geometry = append(geometry, point)
			if i == 0 {
				source = wayNode.ID
				continue
			}
			if node.useCount > 1 || i == len(way.Nodes)-1 {
				from := nodes[source]
				fromPoint := Endpoint{Lat: from.node.Lat, Lon: from.node.Lon}
				if !IsValidEndpoint(fromPoint) || !IsValidEndpoint(point) {
					skipped++
				} else {
					lengthMeters := int(getSphericalLength(geometry) * 1000.0)
					identification := fmt.Sprintf("R%d", roadsNum)
					averageSpeed := cfg.DefaultAverageSpeed
					if averageSpeed > way.Limit {
						averageSpeed = way.Limit
					}
					var err error
					if way.Oneway {
						_, err = net.CreateOneWayRoad(identification, fromPoint, point, lengthMeters, way.Limit, averageSpeed)
						onewayNum++
					} else {
						_, err = net.CreateTwoWayRoad(identification, fromPoint, point, lengthMeters, way.Limit, averageSpeed)
					}
					if err != nil {
						return nil, errors.Wrapf(err, "Can't create road for way %d", way.ID)
					}
					roadsNum++
				}
				source = wayNode.ID
				geometry = []Endpoint{point}
			}
		}
	}
	fmt.Printf("Done in %v\n\tRoads: %d (oneway = %d), skipped segments: %d\n", time.Since(st), roadsNum, onewayNum, skipped)
	return net, nil
}

// parseMaxspeed converts an OSM maxspeed tag to meters per second, falling
// back to the given default for missing or exotic values.
func parseMaxspeed(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	value = strings.TrimSpace(value)
	factor := kmhToMs
	if strings.HasSuffix(value, "mph") {
		factor = 0.44704
		value = strings.TrimSpace(strings.TrimSuffix(value, "mph"))
	}
	speed, err := strconv.ParseFloat(value, 64)
	if err != nil || speed <= 0 {
		return fallback
	}
	return speed * factor
}
