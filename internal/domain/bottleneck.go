package domain

import (
	"math"
	"sort"
	"time"
)

// DeviationThreshold is the number of standard deviations a node's window
// mean must drift from the deployment baseline before it is flagged
const DeviationThreshold = 2.0

// Score weights. Latency and throughput dominate; error rate contributes less.
const (
	latencyWeight    = 0.4
	throughputWeight = 0.4
	errorRateWeight  = 0.2
)

// Bottleneck describes one node flagged by the detector. The metric fields
// are the node's mean values over the analysis window; Timestamp is the
// newest sample that contributed.
type Bottleneck struct {
	NodeID         int64     `json:"node_id"`
	NodeIdentifier string    `json:"node_identifier"`
	DeploymentID   int64     `json:"deployment_id"`
	LatencyMs      float64   `json:"latency_ms"`
	ThroughputGbps float64   `json:"throughput_gbps"`
	ErrorRate      float64   `json:"error_rate"`
	DeviationScore float64   `json:"deviation_score"`
	Reasons        []string  `json:"reasons"`
	Timestamp      time.Time `json:"timestamp"`
}

// BottleneckReport is the full detector result for one deployment
type BottleneckReport struct {
	DeploymentID          int64        `json:"deployment_id"`
	DetectedAt            time.Time    `json:"detected_at"`
	Bottlenecks           []Bottleneck `json:"bottlenecks"`
	TotalBottlenecks      int          `json:"total_bottlenecks"`
	AnalysisWindowMinutes int          `json:"analysis_window_minutes"`
}

// DetectBottlenecks runs the statistical analysis over a window of samples:
// deployment-wide mean and sample standard deviation per metric, then per-node
// z-scores. Directionality matters (high latency, low throughput and high
// error rate are bad), so the throughput deviation is sign-flipped before the
// threshold check. A zero standard deviation forces that metric's z to zero.
//
// Only flagged nodes are scored and returned, sorted by descending deviation
// score with ascending node id breaking ties. Read-only and idempotent:
// identical input yields an identical result. An empty sample set yields nil.
func DetectBottlenecks(samples []TelemetrySample) []Bottleneck {
	if len(samples) == 0 {
		return nil
	}

	latencies := make([]float64, len(samples))
	throughputs := make([]float64, len(samples))
	errorRates := make([]float64, len(samples))
	for i, s := range samples {
		latencies[i] = s.LatencyMs
		throughputs[i] = s.ThroughputGbps
		errorRates[i] = s.ErrorRate
	}

	latencyMean, latencyStd := meanStdDev(latencies)
	throughputMean, throughputStd := meanStdDev(throughputs)
	errorRateMean, errorRateStd := meanStdDev(errorRates)

	byNode := make(map[int64][]TelemetrySample)
	for _, s := range samples {
		byNode[s.NodeID] = append(byNode[s.NodeID], s)
	}

	var flagged []Bottleneck
	for nodeID, nodeSamples := range byNode {
		var latSum, thrSum, errSum float64
		newest := nodeSamples[0].Timestamp
		for _, s := range nodeSamples {
			latSum += s.LatencyMs
			thrSum += s.ThroughputGbps
			errSum += s.ErrorRate
			if s.Timestamp.After(newest) {
				newest = s.Timestamp
			}
		}
		n := float64(len(nodeSamples))
		nodeLatency := latSum / n
		nodeThroughput := thrSum / n
		nodeErrorRate := errSum / n

		latencyDev := zScore(nodeLatency, latencyMean, latencyStd)
		// Sign flipped: a node below the deployment throughput is the anomaly
		throughputDev := zScore(throughputMean, nodeThroughput, throughputStd)
		errorRateDev := zScore(nodeErrorRate, errorRateMean, errorRateStd)

		var reasons []string
		if latencyDev >= DeviationThreshold {
			reasons = append(reasons, "high_latency")
		}
		if throughputDev >= DeviationThreshold {
			reasons = append(reasons, "low_throughput")
		}
		if errorRateDev >= DeviationThreshold {
			reasons = append(reasons, "high_error_rate")
		}
		if len(reasons) == 0 {
			continue
		}

		score := math.Max(0, latencyDev)*latencyWeight +
			math.Max(0, throughputDev)*throughputWeight +
			math.Max(0, errorRateDev)*errorRateWeight

		flagged = append(flagged, Bottleneck{
			NodeID:         nodeID,
			LatencyMs:      nodeLatency,
			ThroughputGbps: nodeThroughput,
			ErrorRate:      nodeErrorRate,
			DeviationScore: score,
			Reasons:        reasons,
			Timestamp:      newest,
		})
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].DeviationScore != flagged[j].DeviationScore {
			return flagged[i].DeviationScore > flagged[j].DeviationScore
		}
		return flagged[i].NodeID < flagged[j].NodeID
	})

	return flagged
}

// zScore computes (value - mean) / std, with a zero std forcing zero to
// avoid division faults on uniform data
func zScore(value, mean, std float64) float64 {
	if std > 0 {
		return (value - mean) / std
	}
	return 0.0
}

// meanStdDev returns the mean and sample standard deviation. With fewer than
// two values the deviation is zero, matching the degenerate-window contract.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if len(values) < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)-1))
}
