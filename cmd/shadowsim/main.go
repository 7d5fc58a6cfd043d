// Command shadowsim runs a scene of shadow buffers and projectors through the
// projector feature on a headless device and prints what every camera would
// draw.
//
// Usage:
//
//	shadowsim -scene scene.yaml -frames 2 -format listing
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/projector"

	_ "github.com/gogpu/projector/recording/backends/listing"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene file (YAML)")
		frames    = flag.Int("frames", 1, "number of frames to simulate")
		verbose   = flag.Bool("v", false, "log feature decisions to stderr")
		dump      = flag.Bool("dump", false, "dump per-camera buffer state")
		format    = flag.String("format", "listing", "command output: listing or summary")
	)
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		projector.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := config{
		scene:  *scenePath,
		frames: *frames,
		format: *format,
		dump:   *dump,
	}
	if err := run(os.Stdout, cfg); err != nil {
		log.Fatalf("Failed to simulate: %v", err)
	}
}
