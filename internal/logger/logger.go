package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/config"
)

// New builds a production logger for the production environment and a
// development logger everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
