// Package ffmpeg integrates the ffmpeg command-line tool so the
// transformation orchestrator can apply genre filter chains and observe
// structured progress updates.
//
// It exposes a Client interface and a CLI implementation that shells out to
// ffmpeg with -progress reporting. Tests can swap in fakes to avoid
// executing the real tool while still exercising orchestrator behaviour.
package ffmpeg
