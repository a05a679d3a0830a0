package service

import (
	"errors"

	"github.com/labmonitor/gas-inference/internal/domain"
)

// ArtifactRepository is re-exported from domain for convenience
type ArtifactRepository = domain.ArtifactRepository

// ErrModelsNotLoaded is returned by every prediction while the registry is not ready
var ErrModelsNotLoaded = errors.New("models not loaded")
