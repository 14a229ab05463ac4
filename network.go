package roadnet

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// RoadNetwork owns the set of active road identifications and the format
// rules they must follow. Every road belongs to exactly one network;
// independent networks do not share identifications.
type RoadNetwork struct {
	roads     map[string]*Road
	idLengths map[int]struct{}
	idRunes   map[rune]struct{}
}

// NewRoadNetwork returns an empty network with the default identification
// rules: length 2 or 3, a capital letter followed by digits.
func NewRoadNetwork() *RoadNetwork {
	net := &RoadNetwork{
		roads: make(map[string]*Road),
	}
	net.resetIdentificationRules()
	return net
}

func (net *RoadNetwork) resetIdentificationRules() {
	net.idLengths = map[int]struct{}{2: {}, 3: {}}
	net.idRunes = make(map[rune]struct{})
	for c := '0'; c <= '9'; c++ {
		net.idRunes[c] = struct{}{}
	}
}

// AllowIdentificationLengths replaces any previously allowed custom lengths
// by the given ones. Lengths 2 and 3 stay allowed.
func (net *RoadNetwork) AllowIdentificationLengths(lengths ...int) error {
	for _, l := range lengths {
		if !canHaveAsLength(l) {
			return errors.Wrapf(ErrInvalidLength, "identification length %d", l)
		}
	}
	extraRunes := net.idRunes
	net.resetIdentificationRules()
	net.idRunes = extraRunes
	for _, l := range lengths {
		net.idLengths[l] = struct{}{}
	}
	return nil
}

// AllowIdentificationCharacters replaces any previously allowed custom
// characters after the capital letter by the given ones. Digits stay allowed.
func (net *RoadNetwork) AllowIdentificationCharacters(characters ...rune) {
	net.idRunes = make(map[rune]struct{})
	for c := '0'; c <= '9'; c++ {
		net.idRunes[c] = struct{}{}
	}
	for _, c := range characters {
		net.idRunes[c] = struct{}{}
	}
}

// IsValidIdentification checks the given identification against the current
// format rules of this network: an allowed length, a capital letter first,
// allowed characters after it.
func (net *RoadNetwork) IsValidIdentification(identification string) bool {
	runes := []rune(identification)
	if _, ok := net.idLengths[len(runes)]; !ok {
		return false
	}
	if runes[0] < 'A' || runes[0] > 'Z' {
		return false
	}
	for _, c := range runes[1:] {
		if _, ok := net.idRunes[c]; !ok {
			return false
		}
	}
	return true
}

// HasIdentification reports whether the given identification belongs to an
// active road of this network.
func (net *RoadNetwork) HasIdentification(identification string) bool {
	_, ok := net.roads[identification]
	return ok
}

// Road returns the active road with the given identification.
func (net *RoadNetwork) Road(identification string) (*Road, bool) {
	road, ok := net.roads[identification]
	return road, ok
}

// Roads returns all active roads of this network ordered by identification.
func (net *RoadNetwork) Roads() []*Road {
	roads := make([]*Road, 0, len(net.roads))
	for _, road := range net.roads {
		roads = append(roads, road)
	}
	sort.Slice(roads, func(i, j int) bool {
		return roads[i].identification < roads[j].identification
	})
	return roads
}

func (net *RoadNetwork) releaseIdentification(identification string) {
	delete(net.roads, identification)
}

// ExportToCSV stores all active roads of the network in a ';'-separated CSV
// file with a WKT geometry column.
func (net *RoadNetwork) ExportToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"identification", "oneway", "length_meters", "speed_limit", "average_speed", "blocked_forth", "blocked_opposite", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, road := range net.Roads() {
		blockedOpposite := "-"
		if !road.oneway {
			blockedOpposite = fmt.Sprintf("%t", road.blockedOpposite)
		}
		geom := orb.LineString{road.endPoint1.orbPoint(), road.endPoint2.orbPoint()}
		err = writer.Write([]string{
			road.identification,
			fmt.Sprintf("%t", road.oneway),
			fmt.Sprintf("%d", road.length),
			fmt.Sprintf("%f", road.speedLimit),
			fmt.Sprintf("%f", road.averageSpeed),
			fmt.Sprintf("%t", road.blockedForth),
			blockedOpposite,
			wkt.MarshalString(geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write road")
		}
	}
	return nil
}
