package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/estebandragone/roomdecay/decay"
	"github.com/estebandragone/roomdecay/deconv"
	"github.com/estebandragone/roomdecay/internal/cli"
	"github.com/estebandragone/roomdecay/plot"
	"github.com/estebandragone/roomdecay/wavio"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Input      string           `arg:"" name:"input" help:"WAV recording to analyze" type:"existingfile"`
	Excitation string           `help:"Excitation WAV file; when set, the impulse response is recovered by deconvolution first" type:"existingfile"`
	Epsilon    float64          `help:"Deconvolution regularization term" default:"1e-8"`
	SaveIR     string           `name:"save-ir" help:"Write the recovered impulse response to this WAV file (24-bit, peak-normalized)"`
	Plot       string           `help:"Render the decay curve to this PNG file"`
	Font       string           `help:"TrueType font for plot labels" type:"existingfile"`
	FontSize   float64          `help:"Plot label size in points" default:"12"`
	JSON       bool             `help:"Print metrics as JSON on stdout"`
	Quiet      bool             `help:"Suppress banner and progress output"`
	Version    kong.VersionFlag `help:"Show version information"`
}

type metricsJSON struct {
	Input      string  `json:"input"`
	SampleRate int     `json:"sample_rate"`
	EDT        float64 `json:"edt_seconds"`
	T20        float64 `json:"t20_seconds"`
	T30        float64 `json:"t30_seconds"`
	INR        float64 `json:"inr_db"`
	LIR        float64 `json:"lir_db"`
	LN         float64 `json:"ln_db"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("roomdecay"),
		kong.Description("Analyze room impulse responses: decay times (EDT, T20, T30) and impulse-to-noise ratio from WAV measurements."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	if !CLI.Quiet && !CLI.JSON {
		cli.PrintBanner()
	}

	if err := run(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func run() error {
	clip, err := wavio.ReadFile(CLI.Input)
	if err != nil {
		return fmt.Errorf("reading recording: %w", err)
	}

	verbose := !CLI.Quiet && !CLI.JSON
	if verbose {
		cli.PrintSection("Input")
		cli.PrintInfo("File", CLI.Input)
		cli.PrintInfo("Sample rate", fmt.Sprintf("%d Hz", clip.SampleRate))
		cli.PrintInfo("Duration", cli.FormatDuration(clip.Duration()))
	}

	samples := clip.Samples

	if CLI.Excitation != "" {
		exc, err := wavio.ReadFile(CLI.Excitation)
		if err != nil {
			return fmt.Errorf("reading excitation: %w", err)
		}

		if exc.SampleRate != clip.SampleRate {
			return fmt.Errorf("sample rate mismatch: recording %d Hz, excitation %d Hz",
				clip.SampleRate, exc.SampleRate)
		}

		samples, err = deconv.ImpulseResponse(samples, exc.Samples, deconv.Options{Epsilon: CLI.Epsilon})
		if err != nil {
			return err
		}

		if verbose {
			cli.PrintSuccess(fmt.Sprintf("impulse response recovered (%d samples)", len(samples)))
		}
	}

	if CLI.SaveIR != "" {
		ir := &wavio.Clip{Samples: normalizePeak(samples), SampleRate: clip.SampleRate}
		if err := wavio.WriteFile(CLI.SaveIR, ir, 24); err != nil {
			return fmt.Errorf("writing impulse response: %w", err)
		}

		if verbose {
			cli.PrintSuccess(fmt.Sprintf("impulse response written to %s", CLI.SaveIR))
		}
	}

	a := decay.NewAnalyzer(float64(clip.SampleRate))

	var tr *decay.Trace
	if CLI.Plot != "" {
		a.OnTrace = func(t *decay.Trace) { tr = t }
	}

	m, err := a.Analyze(samples)
	if err != nil {
		return err
	}

	if CLI.Plot != "" {
		if verbose && CLI.Font == "" {
			cli.PrintWarning("no font given, plot is rendered without axis labels")
		}

		if err := renderPlot(tr); err != nil {
			return err
		}

		if verbose {
			cli.PrintSuccess(fmt.Sprintf("decay curve written to %s", CLI.Plot))
		}
	}

	if CLI.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(metricsJSON{
			Input:      CLI.Input,
			SampleRate: clip.SampleRate,
			EDT:        m.Times.EDT,
			T20:        m.Times.T20,
			T30:        m.Times.T30,
			INR:        m.INR,
			LIR:        m.LIR,
			LN:         m.LN,
		})
	}

	cli.PrintMetricsSummary(m)

	return nil
}

func renderPlot(tr *decay.Trace) error {
	opts := plot.DefaultOptions()
	opts.Title = filepath.Base(CLI.Input)

	if CLI.Font != "" {
		face, err := plot.LoadFont(CLI.Font, CLI.FontSize)
		if err != nil {
			return fmt.Errorf("loading font: %w", err)
		}

		opts.Face = face
	}

	img, err := plot.DecayCurve(tr, opts)
	if err != nil {
		return err
	}

	return plot.WritePNG(CLI.Plot, img)
}

// normalizePeak scales samples so the largest magnitude is 1. The
// input is not modified.
func normalizePeak(samples []float64) []float64 {
	peak := 0.0
	for _, v := range samples {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}

	if peak == 0 {
		return samples
	}

	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = v / peak
	}

	return out
}
