package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/jrsteele09/riskdesk/rbac"
)

const feedWriteTimeout = 10 * time.Second

// PredictionFeedHandler streams a job's status over a websocket until it finishes,
// the client goes away or the session ends.
func (s *Server) PredictionFeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.feeds == nil {
			http.Error(w, "live updates are disabled", http.StatusNotFound)
			return
		}
		if !s.feedDecision(w, r, rbac.Staff, rbac.RiskAnalyst) {
			return
		}

		predictionID := r.PathValue("predictionId")
		watcher, err := s.feeds.Watch(predictionID)
		if err != nil {
			s.logger.Warn().Str("predictionId", predictionID).Err(err).Msg("Failed to watch prediction")
			http.Error(w, "prediction unavailable", http.StatusBadGateway)
			return
		}
		defer s.feeds.Unwatch(watcher)

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Websocket accept failed")
			return
		}
		defer conn.CloseNow()

		// Clients only listen, reading is left to the library to handle close frames.
		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-watcher.Updates():
				if !ok {
					_ = conn.Close(websocket.StatusNormalClosure, "")
					return
				}
				writeCtx, cancel := context.WithTimeout(ctx, feedWriteTimeout)
				err := wsjson.Write(writeCtx, conn, job)
				cancel()
				if err != nil {
					s.logger.Debug().Str("predictionId", predictionID).Err(err).Msg("Feed write failed")
					return
				}
			}
		}
	}
}
