package speech

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/common"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/filters"
	"github.com/RyanBlaney/sonido-tajweed/algorithms/windowing"
)

// NominalFormants are typical adult F1-F4 centres used when a frame does
// not expose enough resonance peaks. They are replaced by evenly spaced
// values when the sample rate cannot represent them.
var NominalFormants = []float64{600, 1650, 2500, 3500}

// FormantParams configures LPC formant estimation
type FormantParams struct {
	SampleRate  int     `json:"sample_rate"`
	WindowSize  int     `json:"window_size"`
	HopSize     int     `json:"hop_size"`
	NumFormants int     `json:"num_formants"`
	LPCOrder    int     `json:"lpc_order"` // 0 = 2 + fs/1000, capped at WindowSize-1
	MinFreq     float64 `json:"min_freq"`
	MaxFreq     float64 `json:"max_freq"` // capped at Nyquist
	PreEmphasis float64 `json:"pre_emphasis"`
	NFFT        int     `json:"nfft"` // envelope resolution
	Window      string  `json:"window"`
}

// DefaultFormantParams returns parameters tuned for speech
func DefaultFormantParams(sampleRate int) FormantParams {
	return FormantParams{
		SampleRate:  sampleRate,
		WindowSize:  1024,
		HopSize:     512,
		NumFormants: 4,
		MinFreq:     90,
		MaxFreq:     5000,
		PreEmphasis: filters.DefaultPreEmphasis,
		NFFT:        2048,
		Window:      "hamming",
	}
}

// FormantData is a single resonance peak on the LPC envelope
type FormantData struct {
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
}

// FormantEstimator picks vocal tract resonances from the LPC envelope of
// the highest-energy frame of a signal
type FormantEstimator struct {
	params FormantParams
	lpc    *LPCAnalyzer
	window windowing.Window
	framer *common.Framer
}

// NewFormantEstimator creates a formant estimator
func NewFormantEstimator(params FormantParams) (*FormantEstimator, error) {
	if params.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", params.SampleRate)
	}
	if params.NumFormants <= 0 {
		return nil, fmt.Errorf("invalid number of formants: %d", params.NumFormants)
	}
	if params.MaxFreq <= params.MinFreq {
		return nil, fmt.Errorf("invalid formant band [%.1f, %.1f] Hz", params.MinFreq, params.MaxFreq)
	}
	if params.WindowSize < 2 {
		return nil, fmt.Errorf("window size %d is too small for LPC analysis", params.WindowSize)
	}

	nyquist := float64(params.SampleRate) / 2
	if params.MaxFreq > nyquist {
		params.MaxFreq = nyquist
	}
	if params.MinFreq >= params.MaxFreq {
		params.MinFreq = 0
	}
	if params.NFFT <= 0 {
		params.NFFT = 2048
	}
	if params.PreEmphasis <= 0 {
		params.PreEmphasis = filters.DefaultPreEmphasis
	}

	framer, err := common.NewFramer(params.WindowSize, params.HopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create framer: %w", err)
	}

	window, err := windowing.NewWindow(params.Window, params.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	order := params.LPCOrder
	if order <= 0 {
		order = DefaultLPCOrder(params.SampleRate)
	}
	// high sample rates ask for more poles than one window can fit
	order = min(order, params.WindowSize-1)
	params.LPCOrder = order

	return &FormantEstimator{
		params: params,
		lpc:    NewLPCAnalyzer(params.SampleRate, order),
		window: window,
		framer: framer,
	}, nil
}

// Estimate returns exactly NumFormants frequencies in ascending order.
// Signals shorter than one window are zero-padded; frames without enough
// peaks (silence included) are completed with in-band fill values.
func (f *FormantEstimator) Estimate(signal []float64) []float64 {
	peaks, err := f.AnalyzeFrame(f.loudestFrame(signal))
	if err != nil {
		peaks = nil
	}

	formants := make([]float64, 0, f.params.NumFormants)
	for _, p := range peaks {
		formants = append(formants, p.Frequency)
	}
	for i := len(formants); i < f.params.NumFormants; i++ {
		formants = append(formants, f.fillFormant(i))
	}

	sort.Float64s(formants)
	return formants
}

// AnalyzeFrame returns the strongest envelope peaks of one frame inside
// [MinFreq, MaxFreq], at most NumFormants, in ascending frequency
func (f *FormantEstimator) AnalyzeFrame(frame []float64) ([]FormantData, error) {
	pe, err := filters.NewPreEmphasis(f.params.PreEmphasis)
	if err != nil {
		return nil, err
	}

	processed := pe.ProcessBuffer(frame)
	if err := f.window.ApplyInPlace(processed); err != nil {
		return nil, err
	}

	result, err := f.lpc.Analyze(processed)
	if err != nil {
		if errors.Is(err, ErrZeroEnergy) {
			return nil, nil
		}
		return nil, fmt.Errorf("LPC analysis failed: %w", err)
	}

	envelope := SpectralEnvelope(result.Coefficients, f.params.NFFT)
	binHz := float64(f.params.SampleRate) / float64(f.params.NFFT)

	var peaks []FormantData
	for bin := 1; bin < len(envelope)-1; bin++ {
		freq := float64(bin) * binHz
		if freq < f.params.MinFreq || freq > f.params.MaxFreq {
			continue
		}
		if envelope[bin] > envelope[bin-1] && envelope[bin] >= envelope[bin+1] {
			peaks = append(peaks, FormantData{Frequency: freq, Amplitude: envelope[bin]})
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Amplitude > peaks[j].Amplitude
	})
	if len(peaks) > f.params.NumFormants {
		peaks = peaks[:f.params.NumFormants]
	}
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Frequency < peaks[j].Frequency
	})

	return peaks, nil
}

// loudestFrame copies out the window with the largest energy
func (f *FormantEstimator) loudestFrame(signal []float64) []float64 {
	best := make([]float64, f.params.WindowSize)

	if len(signal) < f.params.WindowSize {
		copy(best, signal)
		return best
	}

	bestEnergy := -1.0
	for _, frame := range f.framer.All(signal) {
		energy := 0.0
		for _, v := range frame {
			energy += v * v
		}
		if energy > bestEnergy {
			bestEnergy = energy
			copy(best, frame)
		}
	}

	return best
}

// GetParameters returns the resolved parameters
func (f *FormantEstimator) GetParameters() FormantParams {
	return f.params
}

// fillFormant stands in for the i-th formant when no peak was found. The
// nominal table is used while it stays below Nyquist, otherwise slots are
// spread evenly inside (MinFreq, MaxFreq).
func (f *FormantEstimator) fillFormant(i int) float64 {
	n := f.params.NumFormants
	if nominalFormant(n-1) < float64(f.params.SampleRate)/2 {
		return nominalFormant(i)
	}
	step := (f.params.MaxFreq - f.params.MinFreq) / float64(n+1)
	return f.params.MinFreq + float64(i+1)*step
}

func nominalFormant(i int) float64 {
	if i < len(NominalFormants) {
		return NominalFormants[i]
	}
	return NominalFormants[len(NominalFormants)-1] + 1000*float64(i-len(NominalFormants)+1)
}
