// Command posedecode assembles poses from pre-extracted field frames.
//
// Usage:
//
//	posedecode -input frames.json                    # COCO skeleton, default config
//	posedecode -input frames.json -config dec.yaml   # tuned decoder
//	posedecode -input frames.json -log-level debug   # per-frame stats on stderr
//
// The input is a JSON document with the field shape, an optional 1-based
// skeleton and a list of frames (seeds plus association vectors). The
// keypoint names, the 1-based skeleton and the decoded annotations of every
// frame are written to stdout as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/posegraph/annotation"
	"github.com/katalvlaran/posegraph/decoder"
	"github.com/katalvlaran/posegraph/field"
	"github.com/katalvlaran/posegraph/occupancy"
	"github.com/katalvlaran/posegraph/skeleton"
)

// input is the document read from -input.
type input struct {
	// Skeleton overrides the COCO person skeleton; its pairs are 1-based.
	// With a Skeleton, Keypoints sizes it and names the joints in the
	// output. Without one, Keypoints is ignored.
	Keypoints []string `json:"keypoints,omitempty"`
	Skeleton  [][2]int `json:"skeleton,omitempty"`

	Shape struct {
		Height int `json:"height"`
		Width  int `json:"width"`
	} `json:"shape"`

	Frames []field.Frame `json:"frames"`
}

// document is written to stdout: the skeleton the frames were decoded with
// and the annotations of every frame.
type document struct {
	Keypoints []string `json:"keypoints"`
	Skeleton  [][2]int `json:"skeleton"` // 1-based
	Frames    []output `json:"frames"`
}

// output is one decoded frame.
type output struct {
	Frame       int                      `json:"frame"`
	Annotations []*annotation.Annotation `json:"annotations"`
}

func main() {
	configPath := flag.String("config", "", "path to decoder YAML config file")
	inputPath := flag.String("input", "", "path to JSON frames file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: posedecode -input <frames.json> [-config <file>] [-log-level <level>]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *inputPath, os.Stdout); err != nil {
		logger.Error("posedecode: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, inputPath string, w io.Writer) error {
	cfg := decoder.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = decoder.LoadConfig(configPath); err != nil {
			return err
		}
	}

	in, err := readInput(inputPath)
	if err != nil {
		return err
	}

	top, err := topology(in)
	if err != nil {
		return fmt.Errorf("skeleton: %w", err)
	}

	d, err := decoder.New(top, decoder.WithConfig(cfg), decoder.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	shape := occupancy.Shape{Fields: top.Keypoints(), Height: in.Shape.Height, Width: in.Shape.Width}
	out := make([]output, 0, len(in.Frames))
	for i := range in.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := &in.Frames[i]
		anns, err := d.Decode(decoder.Fields{
			Confidence:  []field.Raw{frame},
			Association: frame,
			Shape:       shape,
		})
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		logger.Info("posedecode: frame decoded", "frame", i, "annotations", len(anns))
		out = append(out, output{Frame: i, Annotations: anns})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(document{
		Keypoints: keypointNames(in),
		Skeleton:  oneBased(top),
		Frames:    out,
	})
}

// keypointNames follows the same rule as topology: input names apply only
// together with an input skeleton.
func keypointNames(in *input) []string {
	if len(in.Skeleton) > 0 && len(in.Keypoints) > 0 {
		return in.Keypoints
	}

	return append([]string(nil), skeleton.COCOKeypoints...)
}

func oneBased(top *skeleton.Topology) [][2]int {
	edges := top.Edges()
	pairs := make([][2]int, len(edges))
	for i, e := range edges {
		pairs[i] = [2]int{e.A + 1, e.B + 1}
	}

	return pairs
}

func readInput(path string) (*input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var in input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	return &in, nil
}

func topology(in *input) (*skeleton.Topology, error) {
	if len(in.Skeleton) == 0 {
		return skeleton.COCO(), nil
	}
	n := len(in.Keypoints)
	if n == 0 {
		n = len(skeleton.COCOKeypoints)
	}

	return skeleton.FromOneBased(n, in.Skeleton)
}
