package transcribe

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// EnergyGate decides whether a WAV chunk is worth sending to the recognizer.
// It calibrates the ambient level on the leading window and skips only chunks
// whose loudest frame stays under Floor. Everything audible is submitted;
// deciding whether it holds recognizable speech is the recognizer's job.
type EnergyGate struct {
	Calibration time.Duration
	// Floor is the minimum frame RMS for 16-bit samples.
	Floor float64
	Frame time.Duration
}

// Level summarizes the energy of one chunk.
type Level struct {
	// Ambient is the RMS of the calibration window.
	Ambient float64
	// Peak is the highest frame RMS anywhere in the chunk.
	Peak float64
}

// DefaultEnergyGate returns the gate used by the cloud backend.
func DefaultEnergyGate() EnergyGate {
	return EnergyGate{
		Calibration: 500 * time.Millisecond,
		Floor:       300,
		Frame:       30 * time.Millisecond,
	}
}

// HasSpeech reports whether any frame of path rises above the floor.
func (g EnergyGate) HasSpeech(path string) (bool, error) {
	level, err := g.Measure(path)
	if err != nil {
		return false, err
	}
	return level.Peak > g.Floor, nil
}

// Measure decodes path and returns its ambient and peak levels.
func (g EnergyGate) Measure(path string) (Level, error) {
	file, err := os.Open(path)
	if err != nil {
		return Level{}, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Level{}, fmt.Errorf("energy gate: %s is not a valid wav file", path)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Level{}, fmt.Errorf("energy gate: decode %s: %w", path, err)
	}
	rate := int(decoder.SampleRate)
	channels := int(decoder.NumChans)
	if rate <= 0 || channels <= 0 {
		return Level{}, fmt.Errorf("energy gate: %s has no audio format", path)
	}
	samples := buf.Data
	if len(samples) == 0 {
		return Level{}, nil
	}
	scale := 1.0
	if depth := int(decoder.BitDepth); depth > 16 {
		scale = 1 / float64(int(1)<<(depth-16))
	}

	calibration := samplesFor(g.Calibration, rate, channels)
	frame := max(samplesFor(g.Frame, rate, channels), channels)
	level := Level{Ambient: rms(samples[:min(calibration, len(samples))], scale)}
	for start := 0; start < len(samples); start += frame {
		level.Peak = math.Max(level.Peak, rms(samples[start:min(start+frame, len(samples))], scale))
	}
	return level, nil
}

func samplesFor(d time.Duration, rate, channels int) int {
	return int(d.Seconds()*float64(rate)) * channels
}

func rms(samples []int, scale float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) * scale
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
