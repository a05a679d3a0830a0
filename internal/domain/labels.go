package domain

import "fmt"

// SmokeClass is the vocabulary of the MQ-2 and MQ-7 classifiers
type SmokeClass int

const (
	NoSmoke SmokeClass = iota
	Smoke
)

// Raw class names as written by the training pipeline
const (
	rawNoSmoke = "no_smoke"
	rawSmoke   = "smoke"
)

// ParseSmokeClass converts a raw classifier label into a SmokeClass
func ParseSmokeClass(raw string) (SmokeClass, error) {
	switch raw {
	case rawNoSmoke:
		return NoSmoke, nil
	case rawSmoke:
		return Smoke, nil
	default:
		return NoSmoke, fmt.Errorf("unknown smoke class %q", raw)
	}
}

func (c SmokeClass) String() string {
	if c == Smoke {
		return rawSmoke
	}
	return rawNoSmoke
}

// SmokeLabel is the user-facing label for MQ-2 (MQ2*) and MQ-7 (MQ7*)
type SmokeLabel string

const (
	MQ2Safe   SmokeLabel = "AMAN"
	MQ2Danger SmokeLabel = "BAHAYA!"

	MQ7Normal    SmokeLabel = "NORMAL"
	MQ7Dangerous SmokeLabel = "BERBAHAYA!"
)

// MQ-135 fallback labels
const (
	AirQualityGood     = "Baik"
	AirQualityModerate = "Sedang"
)
