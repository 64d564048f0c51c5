// mapcache builds a map cache file from a directory of .gat files.
//
// Usage:
//
//	go run ./cmd/mapcache -gat data/gat -out db/map_cache.dat
//	go run ./cmd/mapcache -gat data/gat -index db/map_index.txt -water db/water.yaml
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	var opts buildOptions
	flag.StringVar(&opts.gatDir, "gat", "data/gat", "directory with .gat files")
	flag.StringVar(&opts.indexPath, "index", "", "map_index.txt; when set, only listed maps are cached, in index order")
	flag.StringVar(&opts.waterPath, "water", "", "yaml file of map name -> water height")
	flag.StringVar(&opts.outPath, "out", "db/map_cache.dat", "output cache file")
	flag.Parse()

	stats, err := build(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("maps cached:  %d\n", stats.maps)
	fmt.Printf("maps missing: %d\n", len(stats.missing))
	for _, name := range stats.missing {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("cache size:   %d bytes\n", stats.size)
	fmt.Printf("digest:       %s\n", stats.digest)
}
