// Package viz renders traced trajectories in the terminal.
//
// Static output goes through [SeriesPlot] (time series via asciigraph) and
// [SectionPlot] (Poincaré sections on a Braille pixel canvas). [Live] opens
// a Bubble Tea replay of a finished trace.
//
// # Key Bindings (live view)
//
//	Space - pause/resume the replay
//	R     - restart from t=0
//	+/-   - change replay speed
//	Q     - quit
package viz
