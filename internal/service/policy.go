package service

import "github.com/labmonitor/gas-inference/internal/domain"

// Safety override constants. The training sets overlap near the decision
// boundary (MQ-2: no_smoke up to ~67 ppm, smoke from ~66; MQ-7: no_smoke up
// to ~100, smoke from ~99). These values were picked from that data and do
// not carry over to retrained models.
const (
	MQ2SmokeThreshold  = 75.0
	MQ7SmokeThreshold  = 105.0
	OverrideConfidence = 85.0
)

// OverridePolicy downgrades a smoke prediction below Threshold to no_smoke
type OverridePolicy struct {
	Threshold  float64
	Confidence float64
}

var (
	MQ2Override = OverridePolicy{Threshold: MQ2SmokeThreshold, Confidence: OverrideConfidence}
	MQ7Override = OverridePolicy{Threshold: MQ7SmokeThreshold, Confidence: OverrideConfidence}
)

// Apply returns the class and confidence after the override. Only a smoke
// prediction strictly below the threshold is changed.
func (p OverridePolicy) Apply(class domain.SmokeClass, confidence, ppm float64) domain.SmokeOutcome {
	if class == domain.Smoke && ppm < p.Threshold {
		return domain.SmokeOutcome{Class: domain.NoSmoke, Confidence: p.Confidence, Overridden: true}
	}
	return domain.SmokeOutcome{Class: class, Confidence: confidence}
}
