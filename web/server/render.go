package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/imageio"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// LineUpdate represents a finished scanline sent via SSE
type LineUpdate struct {
	Y         int    `json:"y"`         // Output row (0 = top)
	ImageData string `json:"imageData"` // Base64 encoded PNG of just this row
	Completed int    `json:"completed"` // Lines finished so far
	Total     int    `json:"total"`     // Lines in the image
}

// ImageUpdate carries the finished image and its statistics
type ImageUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
}

// Stats represents render statistics
type Stats struct {
	RenderID         string  `json:"renderId"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	Workers          int     `json:"workers"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "line", "image", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders a scene and streams every finished scanline via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Single writer goroutine owns the response
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", err.Error())
		return
	}
	camera, err := sceneObj.NewCamera()
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", err.Error())
		return
	}

	// Console messages flow through their own goroutine into the event stream
	consoleChan := make(chan ConsoleMessage, 50)
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	img, stats, err := renderer.Render(ctx, sceneObj.World, camera, sceneObj.SamplingConfig, renderer.RenderOptions{
		Logger: NewWebLogger(consoleChan),
		OnLine: func(p renderer.LineProgress) {
			s.handleLineUpdate(ctx, sseEventChan, p)
		},
	})

	// Render has returned, so nothing logs any more
	close(consoleChan)
	consoleWG.Wait()

	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}
	update := ImageUpdate{
		ImageData: imageData,
		Width:     img.Width,
		Height:    img.Height,
		Stats: Stats{
			RenderID:         stats.RenderID,
			TotalPixels:      stats.TotalPixels,
			TotalSamples:     stats.TotalSamples,
			Workers:          stats.Workers,
			SamplesPerSecond: stats.SamplesPerSecond(),
			ElapsedMs:        time.Since(startTime).Milliseconds(),
		},
	}
	s.sendJSONEvent(ctx, sseEventChan, "image", update)
	s.sendEvent(ctx, sseEventChan, "complete", "Rendering completed")
}

// handleImage renders a scene and responds with the PNG once it is done
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	camera, err := sceneObj.NewCamera()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, _, err := renderer.Render(r.Context(), sceneObj.World, camera, sceneObj.SamplingConfig, renderer.RenderOptions{})
	if err != nil {
		http.Error(w, fmt.Sprintf("Rendering failed: %v", err), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, img); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode image: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel closes or the client leaves
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		s.sendEvent(ctx, sseEventChan, "console", string(data))
	}
}

// handleLineUpdate encodes a finished scanline as a one-row PNG
func (s *Server) handleLineUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, p renderer.LineProgress) {
	row := renderer.NewImage(len(p.Pixels), 1)
	row.SetScanline(0, p.Pixels)
	imageData, err := imageToBase64PNG(row)
	if err != nil {
		log.Printf("Error encoding scanline %d: %v", p.Row, err)
		return
	}

	update := LineUpdate{
		Y:         p.Total - 1 - p.Row,
		ImageData: imageData,
		Completed: p.Completed,
		Total:     p.Total,
	}
	s.sendJSONEvent(ctx, sseEventChan, "line", update)
}

func (s *Server) sendJSONEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	s.sendEvent(ctx, sseEventChan, eventType, string(data))
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType, data string) {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
