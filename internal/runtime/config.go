package runtime

import (
	"github.com/rs/zerolog"

	"mlactions/internal/store"
)

// Defaults applied when corresponding HostConfig fields are unset.
const (
	defaultMaxActivations = 1024
)

// HostConfig encapsulates all tunables for Host construction.
type HostConfig struct {
	Store          store.StatusStore
	Publisher      EventPublisher
	Log            zerolog.Logger
	MaxActivations int
	// DefaultAction is served by the OpenWhisk-style /init and /run routes.
	DefaultAction string
}
