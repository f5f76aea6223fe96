package main

import (
	"flag"
	"log"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func main() {
	root := flag.String("root", "testdata/scenarios", "Root directory of the generated study")
	scenarios := flag.String("scenarios", "2,4", "Comma-separated scenario folder names")
	seeds := flag.Int("seeds", 3, "Number of seeds per scenario")
	sensors := flag.Int("sensors", 20, "Number of sensors per run")
	records := flag.Int("records", 5000, "Number of trace records per run")
	malicious := flag.String("malicious", "", "Comma-separated ids of malicious sensors")
	loss := flag.Float64("loss", 0.1, "Share of records that are not successful")
	format := flag.String("format", "csv", "Trace format: csv or pcap")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	opts := Options{Sensors: *sensors, Records: *records, LossRate: *loss}
	for _, s := range strings.Split(*malicious, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		id, err := strconv.Atoi(s)
		if err != nil {
			log.Fatalf("Invalid malicious sensor id %q: %v", s, err)
		}
		opts.Malicious = append(opts.Malicious, id)
	}

	rng := rand.New(rand.NewSource(*seed))
	for _, scenario := range strings.Split(*scenarios, ",") {
		for i := 1; i <= *seeds; i++ {
			dir := filepath.Join(*root, strings.TrimSpace(scenario), "seed"+strconv.Itoa(i))
			trace := Generate(opts, rng)

			switch *format {
			case "pcap":
				path := filepath.Join(dir, "Packet Trace.pcap")
				n, err := WritePcap(path, trace)
				if err != nil {
					log.Fatalf("Failed to write %s: %v", path, err)
				}
				log.Printf("Generated %d packets into %s", n, path)
			default:
				path := filepath.Join(dir, "Packet Trace.csv")
				if err := WriteCSV(path, trace); err != nil {
					log.Fatalf("Failed to write %s: %v", path, err)
				}
				log.Printf("Generated %d records into %s", len(trace), path)
			}
		}
	}
}
