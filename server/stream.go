package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/domonda/go-chartable/chart"
)

// handleEventStream sends the chart model as "model" event
// followed by a "patch" event for every chart update.
// If the client can't keep up, the stream is closed
// so that the widget reconnects and refetches the model.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	var (
		patches      = make(chan chart.Patch, s.streamBuffer)
		overflow     = make(chan struct{})
		overflowOnce sync.Once
	)
	unsubscribe := s.chart.Subscribe(func(patch chart.Patch) {
		select {
		case patches <- patch:
		default:
			s.metrics.patchesDropped.Inc()
			overflowOnce.Do(func() { close(overflow) })
		}
	})
	defer unsubscribe()

	s.metrics.streams.Inc()
	defer s.metrics.streams.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "model", s.chart.Model()); err != nil {
		s.logger.Debug("Event stream closed", zap.Error(err))
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-overflow:
			s.logger.Warn("Closing slow event stream", zap.String("remote", r.RemoteAddr))
			return

		case patch := <-patches:
			if err := writeEvent(w, "patch", patch); err != nil {
				s.logger.Debug("Event stream closed", zap.Error(err))
				return
			}
			s.metrics.patchesSent.Inc()
			flusher.Flush()

		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data any) error {
	j, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, j)
	return err
}
