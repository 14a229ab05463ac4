package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"roadnet"
)

var (
	tagStr        = flag.String("tags", "motorway,trunk,primary,secondary,tertiary,residential,unclassified", "Set of needed tags (separated by commas)")
	osmFileName   = flag.String("file", "my_graph.osm.pbf", "Filename of *.osm.pbf file (it has to be compressed)")
	out           = flag.String("out", "my_graph.csv", "Filename of 'Comma-Separated Values' (CSV) formatted file with roads. E.g.: if file name is 'map.csv' then shortcuts go to 'map_shortcuts.csv'")
	geojsonOut    = flag.String("geojson", "", "Optional filename for GeoJSON export of the road network")
	doContraction = flag.Bool("contract", true, "Prepare contraction hierarchies?")
	fromStr       = flag.String("from", "", "Optional query start as 'lon,lat'")
	toStr         = flag.String("to", "", "Optional query target as 'lon,lat'")
)

func main() {
	flag.Parse()

	tags := strings.Split(*tagStr, ",")
	cfg := roadnet.NewDefaultLoaderConfiguration()
	cfg.Tags = tags

	net, err := roadnet.ImportFromOSMFile(*osmFileName, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	fnamePart := strings.Split(*out, ".csv") // to guarantee proper filename and its extension
	fnameRoads := fnamePart[0] + ".csv"
	fnameShortcuts := fnamePart[0] + "_shortcuts.csv"

	if err := net.ExportToCSV(fnameRoads); err != nil {
		fmt.Println(err)
		return
	}

	if *geojsonOut != "" {
		b, err := net.ExportToGeoJSON()
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := os.WriteFile(*geojsonOut, b, 0644); err != nil {
			fmt.Println(err)
			return
		}
	}

	if !*doContraction {
		return
	}

	fmt.Println("Starting contraction process....")
	st := time.Now()
	graph, err := roadnet.BuildPathGraph(net)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Done contraction process in %v\n", time.Since(st))

	if err := graph.ExportShortcutsToFile(fnameShortcuts); err != nil {
		fmt.Println(err)
		return
	}

	if *fromStr == "" || *toStr == "" {
		return
	}
	from, err := parseEndpoint(*fromStr)
	if err != nil {
		fmt.Println(err)
		return
	}
	to, err := parseEndpoint(*toStr)
	if err != nil {
		fmt.Println(err)
		return
	}
	cost, path, err := graph.ShortestPath(from, to)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Shortest path: %f meters via %d points\n", cost, len(path))
	fmt.Println(roadnet.PrepareWKTLinestring(path))
}

func parseEndpoint(value string) (roadnet.Endpoint, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return roadnet.Endpoint{}, fmt.Errorf("Expected 'lon,lat', got '%s'", value)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return roadnet.Endpoint{}, fmt.Errorf("Bad longitude '%s'", parts[0])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return roadnet.Endpoint{}, fmt.Errorf("Bad latitude '%s'", parts[1])
	}
	return roadnet.Endpoint{Lon: lon, Lat: lat}, nil
}
