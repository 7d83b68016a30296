package domain

import (
	"math"
	"time"
)

// TelemetrySample is one immutable time-series measurement for a node.
// Samples are append-only and destroyed only by deployment cascade delete.
type TelemetrySample struct {
	ID             int64     `json:"id"`
	NodeID         int64     `json:"node_id"`
	DeploymentID   int64     `json:"deployment_id"`
	Timestamp      time.Time `json:"timestamp"`
	LatencyMs      float64   `json:"latency_ms"`      // [1, 200]
	ThroughputGbps float64   `json:"throughput_gbps"` // [1, 10]
	ErrorRate      float64   `json:"error_rate"`      // [0, 5] percent
}

// Metrics holds one generated reading before it is persisted
type Metrics struct {
	LatencyMs      float64
	ThroughputGbps float64
	ErrorRate      float64
}

// degradedFactorThreshold marks the node-factor band that receives a degraded
// baseline. Node ids with id%10 > 7 simulate bottleneck devices, guaranteeing
// reproducible anomaly scenarios in any sufficiently large deployment.
const degradedFactorThreshold = 7

// GenerateTelemetry deterministically computes metrics for a node at a point
// in time. The same (id, ts) pair always yields bit-identical values: the
// per-node baseline is derived from the id, and the only time dependence is a
// slow sine oscillation over the timestamp. Values are clamped to their
// documented ranges and rounded to two decimals.
func GenerateTelemetry(id int64, ts time.Time) Metrics {
	timeFactor := float64(ts.Unix()) / 100.0
	nodeFactor := float64(id % 10)

	var baseLatency, baseThroughput, baseErrorRate float64
	if nodeFactor > degradedFactorThreshold {
		baseLatency = 50.0 + (nodeFactor-7)*20.0
		baseThroughput = 8.0 - (nodeFactor-7)*1.5
		baseErrorRate = 0.5 + (nodeFactor-7)*0.3
	} else {
		baseLatency = 10.0 + nodeFactor*2.0
		baseThroughput = 9.5 - nodeFactor*0.1
		baseErrorRate = 0.1 + nodeFactor*0.02
	}

	timeVariation := math.Sin(timeFactor+float64(id)) * 0.3

	latency := baseLatency * (1.0 + timeVariation*0.2)
	throughput := baseThroughput * (1.0 + timeVariation*0.1)
	errorRate := math.Max(0.0, baseErrorRate+timeVariation*0.1)

	return Metrics{
		LatencyMs:      round2(clamp(latency, 1.0, 200.0)),
		ThroughputGbps: round2(clamp(throughput, 1.0, 10.0)),
		ErrorRate:      round2(clamp(errorRate, 0.0, 5.0)),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
