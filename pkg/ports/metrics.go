package ports

// MetricsSink receives fire-and-forget operational metrics. Calls never
// fail from the caller's perspective; implementations degrade silently.
type MetricsSink interface {
	// FireInc increments the named count metric by one.
	FireInc(name string)

	// FireAvg contributes value to the named running average.
	FireAvg(name string, value float64)

	// FireMax records value for the named high-watermark metric.
	FireMax(name string, value float64)
}

// NopMetrics is a MetricsSink that discards everything.
type NopMetrics struct{}

func (NopMetrics) FireInc(string)          {}
func (NopMetrics) FireAvg(string, float64) {}
func (NopMetrics) FireMax(string, float64) {}
