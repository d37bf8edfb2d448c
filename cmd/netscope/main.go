package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/openfluke/netscope/gpu"
	"github.com/openfluke/netscope/nn"
	"github.com/openfluke/netscope/scene"
)

func main() {
	modelPath := flag.String("model", "model.json", "path to the trained model document")
	configPath := flag.String("config", "", "optional view config document")
	debug := flag.Bool("debug", false, "verbose GPU resource logging")
	probe := flag.Bool("probe", false, "print a GPU capability report and exit")
	flag.Parse()

	gpu.Debug = *debug

	if *probe {
		report, err := gpu.ProbeJSON()
		if err != nil {
			fatal(err)
		}
		fmt.Println(report)
		return
	}

	cfg := scene.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = scene.LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
	}

	// The model must load before anything renders; a bad document is fatal,
	// there is no degraded mode.
	net, err := nn.LoadModel(*modelPath)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Loaded network: %v\n", net.Architecture)

	if err := gpu.EnsureGPU(); err != nil {
		fatal(err)
	}

	manager := scene.NewManager(net, cfg)
	if err := manager.Alloc(); err != nil {
		fatal(err)
	}
	defer manager.Cleanup()

	renderer, err := scene.NewRenderer(cfg)
	if err != nil {
		fatal(err)
	}
	defer renderer.Cleanup()
	for _, set := range manager.Sets() {
		if err := renderer.CreateBindGroup(set); err != nil {
			fatal(err)
		}
	}

	camera := scene.NewCamera(manager.Extent())
	loop := scene.NewLoop(net, manager, renderer, camera, cfg.FPS)
	loop.OnProbabilities = printProbabilities

	// Paint surface shim: produces the fixed-size [0,1] buffer and pushes
	// every edit into the loop, which coalesces them per frame.
	surface := newCanvas(cfg.InputRows, cfg.InputCols, func(pixels []float32) {
		if err := loop.Push(pixels); err != nil {
			fmt.Fprintf(os.Stderr, "push: %v\n", err)
		}
	})
	surface.strokeDemo()

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		loop.Stop()
	case err := <-errCh:
		if err != nil {
			fatal(err)
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "netscope: %v\n", err)
	os.Exit(1)
}

// printProbabilities is the probability-chart stand-in: a text bar per class
func printProbabilities(probs []float32) {
	best := nn.Argmax(probs)
	var b strings.Builder
	fmt.Fprintf(&b, "prediction: %d\n", best)
	for class, p := range probs {
		bar := strings.Repeat("#", int(p*40))
		fmt.Fprintf(&b, "  %2d %5.1f%% %s\n", class, p*100, bar)
	}
	fmt.Print(b.String())
}
