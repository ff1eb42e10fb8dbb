package action

import (
	"github.com/rs/zerolog"

	"mlactions/internal/hub"
	"mlactions/internal/installer"
	"mlactions/internal/pipeline"
)

// Deps are the external collaborators of the actions.
type Deps struct {
	Installer installer.Installer
	Hub       hub.Session
	Pipelines pipeline.Factory
	Log       zerolog.Logger
}
