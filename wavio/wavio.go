// Package wavio reads and writes mono WAV clips as float64 sample
// slices. Multi-channel files are downmixed to mono by averaging, the
// usual treatment for room measurements taken with more than one
// microphone channel.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV I/O errors.
var (
	ErrInvalidFile = errors.New("wavio: invalid WAV file")
	ErrNoData      = errors.New("wavio: file contains no samples")
	ErrBadBitDepth = errors.New("wavio: unsupported bit depth")
	ErrInvalidClip = errors.New("wavio: clip must have samples and a positive sample rate")
)

// Clip is a mono audio signal with its sample rate.
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the clip length as wall-clock time.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// ReadFile reads a WAV file from disk.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read decodes a WAV stream into a mono clip. Samples are scaled to
// [-1, 1]; multi-channel input is downmixed by averaging.
func Read(rs io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: reading PCM data: %w", err)
	}

	if len(buf.Data) == 0 {
		return nil, ErrNoData
	}

	numChans := buf.Format.NumChannels
	if numChans <= 0 {
		return nil, ErrInvalidFile
	}

	maxVal := float64(audio.IntMaxSignedValue(int(dec.BitDepth)))
	if maxVal == 0 {
		return nil, fmt.Errorf("%w: %d-bit", ErrBadBitDepth, dec.BitDepth)
	}

	clip := &Clip{SampleRate: buf.Format.SampleRate}

	if numChans == 1 {
		clip.Samples = make([]float64, len(buf.Data))
		for i, v := range buf.Data {
			clip.Samples[i] = float64(v) / maxVal
		}

		return clip, nil
	}

	// Downmix interleaved channels to mono.
	numFrames := len(buf.Data) / numChans
	clip.Samples = make([]float64, numFrames)

	for i := range numFrames {
		var sum float64
		for ch := range numChans {
			sum += float64(buf.Data[i*numChans+ch]) / maxVal
		}

		clip.Samples[i] = sum / float64(numChans)
	}

	return clip, nil
}

// WriteFile writes a mono WAV file to disk at the given bit depth.
func WriteFile(path string, clip *Clip, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, clip, bitDepth); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Write encodes a mono clip as PCM WAV. Supported bit depths are 16,
// 24 and 32. Samples outside [-1, 1] are clamped; NaN writes as
// silence.
func Write(ws io.WriteSeeker, clip *Clip, bitDepth int) error {
	if clip == nil || len(clip.Samples) == 0 || clip.SampleRate <= 0 {
		return ErrInvalidClip
	}

	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d-bit", ErrBadBitDepth, bitDepth)
	}

	maxVal := float64(audio.IntMaxSignedValue(bitDepth))

	buf := &audio.IntBuffer{
		Data: make([]int, len(clip.Samples)),
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  clip.SampleRate,
		},
		SourceBitDepth: bitDepth,
	}

	for i, v := range clip.Samples {
		switch {
		case math.IsNaN(v):
			v = 0
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}

		buf.Data[i] = int(math.Round(v * maxVal))
	}

	enc := wav.NewEncoder(ws, clip.SampleRate, bitDepth, 1, 1)

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: writing PCM data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalizing WAV file: %w", err)
	}

	return nil
}
