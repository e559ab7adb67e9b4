// Package preset has helpers for describing model railroad layouts.
// Distances are in millimetres.
package preset

// Scale is the N gauge scale (1:150).
const Scale = 150

// ScaleKmH converts a prototype speed in km/h to a model speed in mm/s.
func ScaleKmH(a float64) float64 {
	return a * 1e6 / (60 * 60) / Scale
}
