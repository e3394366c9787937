package delivery

import "log/slog"

// SlogObserver reports delivery events through slog at debug level.
type SlogObserver struct {
	Logger *slog.Logger // defaults to slog.Default() when nil
}

func (o *SlogObserver) DeliveryEvent(ev Event) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if ev.Err != nil {
		logger.Debug("delivery step failed", "step", ev.Step, "chart", ev.Label, "error", ev.Err)
		return
	}
	logger.Debug("chart delivered", "step", ev.Step, "chart", ev.Label)
}
