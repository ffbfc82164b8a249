package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
	}
}

// ReportRead hands a read latency to the metric collector. The send never
// blocks; when nothing consumes the channel (tests, collector not started)
// the sample is dropped.
func (m *Metric) ReportRead(micros float64) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseRead <- micros:
	default:
	}
}

// ReportWrite hands a write latency to the metric collector, same
// non-blocking contract as ReportRead.
func (m *Metric) ReportWrite(micros float64) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseWrite <- micros:
	default:
	}
}
