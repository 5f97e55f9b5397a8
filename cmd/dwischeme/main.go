package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"microstruct/pkg/acquisition"
	"microstruct/pkg/config"
)

func main() {
	// Parse command line arguments
	bvalsPath := flag.String("bvals", "", "Path to FSL-style bvals file (s/mm^2)")
	bvecsPath := flag.String("bvecs", "", "Path to FSL-style bvecs file")
	smallDelta := flag.Float64("delta", 0.0129, "Pulse duration delta in seconds")
	bigDelta := flag.Float64("Delta", 0.0218, "Pulse separation Delta in seconds")
	configPath := flag.String("config", "", "Optional YAML config with classification parameters")
	flag.Parse()

	if *bvalsPath == "" || *bvecsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	bvals, err := readFloats(*bvalsPath)
	if err != nil {
		log.Fatalf("Failed to read bvals: %v", err)
	}
	bvecs, err := readDirections(*bvecsPath, len(bvals))
	if err != nil {
		log.Fatalf("Failed to read bvecs: %v", err)
	}

	gtab := &acquisition.GradientTable{
		Bvals:      bvals,
		Bvecs:      bvecs,
		SmallDelta: []float64{*smallDelta},
		BigDelta:   []float64{*bigDelta},
	}

	scheme, err := acquisition.SchemeFromGradientTable(gtab, opts)
	if err != nil {
		var invalid *acquisition.InvalidAcquisitionError
		if errors.As(err, &invalid) {
			log.Fatalf("Acquisition rejected: %v", err)
		}
		log.Fatalf("Failed to build acquisition scheme: %v", err)
	}

	if err := scheme.WriteSummary(os.Stdout); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}
}

// readFloats parses a whitespace-separated file of numbers, such as an
// FSL bvals file.
func readFloats(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values []float64
	for _, field := range strings.Fields(string(data)) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// readDirections parses an FSL bvecs file into an (N, 3) matrix. Both
// layouts are accepted: N rows of 3 values, or the more common 3 rows of
// N values, which is transposed.
func readDirections(path string, n int) (*mat.Dense, error) {
	values, err := readFloats(path)
	if err != nil {
		return nil, err
	}
	if len(values) != 3*n {
		return nil, fmt.Errorf("expected %d direction components for %d measurements, got %d",
			3*n, n, len(values))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			rows = append(rows, fields)
		}
	}

	dirs := mat.NewDense(n, 3, nil)
	if len(rows) == 3 && n != 3 {
		// 3 x N layout
		for c := 0; c < 3; c++ {
			for i := 0; i < n; i++ {
				v, _ := strconv.ParseFloat(rows[c][i], 64)
				dirs.Set(i, c, v)
			}
		}
	} else {
		// N x 3 layout
		for i := 0; i < n; i++ {
			dirs.SetRow(i, values[3*i:3*i+3])
		}
	}
	return dirs, nil
}
