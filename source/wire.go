// Package source delivers hand landmarks to an evergreen scene over a
// websocket. A detector (a browser page running MediaPipe, a Python script)
// either connects to a Server or serves a stream that Dial connects to.
// Both sides exchange one JSON Frame per text message.
package source

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/phanxgames/evergreen"
)

// Frame is the wire form of one detection result. TimestampMs is the video
// frame time in milliseconds; Landmarks holds one 21-point list per hand.
type Frame struct {
	TimestampMs float64                `json:"timestampMs"`
	Landmarks   [][]evergreen.Landmark `json:"landmarks"`
}

// Decode parses a frame. Hands with the wrong number of points are dropped,
// so a malformed hand reads as no hand.
func Decode(data []byte) (evergreen.DetectionResult, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return evergreen.DetectionResult{}, fmt.Errorf("source: failed to decode frame: %w", err)
	}
	res := evergreen.DetectionResult{
		Timestamp: time.Duration(f.TimestampMs * float64(time.Millisecond)),
	}
	for _, pts := range f.Landmarks {
		if h, ok := evergreen.HandFromPoints(pts); ok {
			res.Hands = append(res.Hands, h)
		}
	}
	return res, nil
}

// Encode renders res as a frame.
func Encode(res evergreen.DetectionResult) ([]byte, error) {
	f := Frame{
		TimestampMs: float64(res.Timestamp) / float64(time.Millisecond),
		Landmarks:   make([][]evergreen.Landmark, 0, len(res.Hands)),
	}
	for _, h := range res.Hands {
		f.Landmarks = append(f.Landmarks, h[:])
	}
	return json.Marshal(f)
}
