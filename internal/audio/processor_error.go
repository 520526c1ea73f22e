package audio

import "go.uber.org/zap"

// setError puts the processor back to idle with err as the visible message.
func (p *Processor) setError(msg string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Warn(msg, zap.Error(err))
	p.status = ProcessingStatus{
		State:   StateIdle,
		Message: msg + ": " + err.Error(),
		Err:     err,
	}
}

// setStatus replaces the status with a new state and message.
func (p *Processor) setStatus(state ProcessingState, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setStatusLocked(state, msg)
}

func (p *Processor) setStatusLocked(state ProcessingState, msg string) {
	p.logger.Debug("status update", zap.Stringer("state", state), zap.String("message", msg))
	p.status = ProcessingStatus{
		State:     state,
		Message:   msg,
		CanCancel: state != StateIdle,
		StartTime: p.now(),
	}
}
