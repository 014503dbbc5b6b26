// Package decay computes room-acoustics decay parameters from impulse
// responses.
//
// The package implements the decay-curve pipeline behind ISO 3382 style
// room measurements: peak-relative trimming, Schroeder backward integration
// of the squared impulse response, and least-squares slope fits over
// standardized dB evaluation windows:
//
//   - EDT: Early Decay Time, fitted between -1 and -10 dB
//   - T20: decay time fitted between -5 and -25 dB
//   - T30: decay time fitted between -5 and -35 dB
//   - INR: Impulse-to-Noise Ratio, the usable dynamic range between the
//     back-extrapolated impulse level and the noise floor
//
// All levels are relative to the decay-curve maximum; fitted slopes are
// extrapolated to the time of a full 60 dB decay.
//
// # Usage
//
//	analyzer := decay.NewAnalyzer(48000) // sample rate
//	metrics, err := analyzer.Analyze(impulseResponse)
//	fmt.Printf("T30 = %.2f s, INR = %.1f dB\n", metrics.Times.T30, metrics.INR)
//
// The granular stages (TrimToPeak, Schroeder, DecayTime) are exported for
// callers that need to inject noise compensation terms or custom fitting
// windows between them.
package decay
