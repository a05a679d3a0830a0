package service

import "github.com/labmonitor/gas-inference/internal/domain"

// The two mappings differ on purpose; keep them separate.

// MQ2Label maps an MQ-2 class to its display label
func MQ2Label(class domain.SmokeClass) domain.SmokeLabel {
	if class == domain.Smoke {
		return domain.MQ2Danger
	}
	return domain.MQ2Safe
}

// MQ7Label maps an MQ-7 class to its display label
func MQ7Label(class domain.SmokeClass) domain.SmokeLabel {
	if class == domain.NoSmoke {
		return domain.MQ7Normal
	}
	return domain.MQ7Dangerous
}
