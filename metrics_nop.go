package debitcard

// NopMetrics is a no-op Metrics instance used when no metrics backend is configured
var NopMetrics Metrics = &nopMetrics{}

type nopMetrics struct{}

func (nopMetrics) ReceivedCommand(string) {
}

func (nopMetrics) FinishCommand(string, bool) {
}

func (nopMetrics) VersionConflict(string) {
}
