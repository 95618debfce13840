package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"uvmeasure/internal/models"
	"uvmeasure/pkg/config"
	"uvmeasure/pkg/gridding"
	"uvmeasure/pkg/operator"
	"uvmeasure/pkg/power"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "uvmeasure.yaml", "Path to YAML configuration file")
	nx := flag.Int("nx", 0, "Image width in pixels (overrides config)")
	ny := flag.Int("ny", 0, "Image height in pixels (overrides config)")
	nmeas := flag.Int("meas", 0, "Number of visibility samples (overrides config)")
	exact := flag.Bool("exact-deconv", false, "Install the exact kernel correction instead of the flat placeholder")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to the config path and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *nx > 0 {
		cfg.Grid.Nx = *nx
	}
	if *ny > 0 {
		cfg.Grid.Ny = *ny
	}
	if *nmeas > 0 {
		cfg.Sampling.Nmeas = *nmeas
	}

	params := gridding.Params{
		Nmeas: cfg.Sampling.Nmeas,
		Nx1:   cfg.Grid.Nx,
		Ny1:   cfg.Grid.Ny,
		Ofx:   cfg.Grid.OversampleX,
		Ofy:   cfg.Grid.OversampleY,
		Umax:  cfg.Sampling.Umax,
		Vmax:  cfg.Sampling.Vmax,
	}
	nx2, ny2 := params.GridSize()

	fmt.Println("================================")
	fmt.Println("UVMEASURE - RADIO-INTERFEROMETRIC MEASUREMENT OPERATOR")
	fmt.Println("================================")
	fmt.Printf("Image grid: %dx%d, padded FFT grid: %dx%d\n", params.Nx1, params.Ny1, nx2, ny2)
	fmt.Printf("Visibility samples: %d\n", params.Nmeas)

	// Synthesize a uniform random uv coverage
	coords := synthesizeCoverage(cfg)

	// Build the measurement operator
	start := time.Now()
	op, err := operator.NewContinuous(coords, params)
	if err != nil {
		log.Fatalf("Failed to build measurement operator: %v", err)
	}
	if *exact {
		if err := op.SetDeconvolution(gridding.GridCorrection(params)); err != nil {
			log.Fatalf("Failed to install exact deconvolution: %v", err)
		}
	}
	buildTime := time.Since(start)
	numel := (2*gridding.SupportRadius + 1) * (2*gridding.SupportRadius + 1)
	fmt.Printf("Operator built in %.3f s (%d kernel values)\n", buildTime.Seconds(), params.Nmeas*numel)

	// Estimate the operator norm with the power method
	opts := power.Options{Seed: cfg.Power.Seed, MaxIter: cfg.Power.MaxIter, Tol: cfg.Power.Tol}
	start = time.Now()
	res := power.Estimate(op, opts)
	powerTime := time.Since(start)

	fmt.Println("\nPower method:")
	fmt.Printf("- Squared operator norm estimate: %.6f\n", res.Norm)
	fmt.Printf("- Step size bound 1/||A||^2: %.6f\n", 1/res.Norm)
	fmt.Printf("- Iterations: %d (converged: %v)\n", res.Iterations, res.Converged)
	fmt.Printf("- Time: %.3f s\n", powerTime.Seconds())
	if !res.Converged {
		fmt.Println("- Iteration cap reached; treat the estimate as an approximate upper bound")
	}

	// Apply forward then adjoint to a centered point source and report
	// the dirty-beam statistics
	img := models.NewImage(params.Nx1, params.Ny1, cfg.Grid.FovX, cfg.Grid.FovY)
	img.Pix[img.Ind(params.Nx1/2, params.Ny1/2)] = 1.0

	vis := make([]complex128, op.RangeSize())
	dirty := make([]complex128, op.DomainSize())
	start = time.Now()
	if err := op.ForwardImage(vis, img); err != nil {
		log.Fatalf("Forward map failed: %v", err)
	}
	op.ApplyAdjoint(dirty, vis)
	applyTime := time.Since(start)

	re := make([]float64, len(dirty))
	peak := math.Inf(-1)
	for i, v := range dirty {
		re[i] = real(v)
		if re[i] > peak {
			peak = re[i]
		}
	}

	fmt.Println("\nDirty beam (forward + adjoint of a centered point source):")
	fmt.Printf("- Peak: %.6e\n", peak)
	fmt.Printf("- Mean: %.6e, stddev: %.6e\n", stat.Mean(re, nil), stat.StdDev(re, nil))
	fmt.Printf("- Round trip time: %.3f s\n", applyTime.Seconds())

	if cfg.Output.Verbose {
		fmt.Println("\nGeometry:")
		fmt.Printf("- Coordinate bounds: (-%.4f, %.4f] x (-%.4f, %.4f]\n",
			cfg.Sampling.Umax, cfg.Sampling.Umax, cfg.Sampling.Vmax, cfg.Sampling.Vmax)
		fmt.Printf("- Grid increments: %.6f x %.6f\n",
			cfg.Sampling.Umax/float64(nx2/2), cfg.Sampling.Vmax/float64(ny2/2))
		fmt.Printf("- Field of view: %.3f x %.3f rad\n", cfg.Grid.FovX, cfg.Grid.FovY)
	}
}

// synthesizeCoverage draws a reproducible uniform random uv coverage
// within the configured coordinate bounds.
func synthesizeCoverage(cfg *config.Config) *models.VisCoords {
	src := rand.NewSource(cfg.Sampling.Seed)
	du := distuv.Uniform{Min: -cfg.Sampling.Umax, Max: cfg.Sampling.Umax, Src: src}
	dv := distuv.Uniform{Min: -cfg.Sampling.Vmax, Max: cfg.Sampling.Vmax, Src: src}

	coords := &models.VisCoords{
		U: make([]float64, cfg.Sampling.Nmeas),
		V: make([]float64, cfg.Sampling.Nmeas),
	}
	for i := range coords.U {
		coords.U[i] = du.Rand()
		coords.V[i] = dv.Rand()
	}
	return coords
}
