package run

import (
	"context"

	"alexabot/internal/control"
)

type turnJob struct {
	text string
	done chan turnResult
}

type turnResult struct {
	turn control.Turn
	quit bool
}

// turnWorker serializes utterances from control clients. A shutdown turn
// stops the daemon after its reply was spoken.
func (s *Server) turnWorker(ctx context.Context, stop context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.turnCh:
			turn, quit := s.HandleUtterance(ctx, job.text)
			job.done <- turnResult{turn: turn, quit: quit}
			if quit {
				stop()
				return
			}
		}
	}
}

// submit queues text for the worker and waits for its turn.
func (s *Server) submit(ctx context.Context, text string) control.TurnResponse {
	job := turnJob{text: text, done: make(chan turnResult, 1)}
	select {
	case s.turnCh <- job:
	default:
		s.metrics.dropped.Inc()
		s.logger.Warn("turn queue full, dropping utterance")
		return control.TurnResponse{OK: false, Error: "busy: turn queue full"}
	}
	select {
	case res := <-job.done:
		return control.TurnResponse{OK: true, Turn: res.turn, Quit: res.quit}
	case <-ctx.Done():
		// A shutdown turn cancels ctx right after delivering its result.
		select {
		case res := <-job.done:
			return control.TurnResponse{OK: true, Turn: res.turn, Quit: res.quit}
		default:
			return control.TurnResponse{OK: false, Error: "daemon shutting down"}
		}
	}
}
