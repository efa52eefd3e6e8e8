package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/config"
)

// New builds the logger for the binary named app: JSON in production, console
// output elsewhere.
func New(cfg *config.Config, app string) (*zap.Logger, error) {
	var (
		lg  *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		lg, err = zap.NewProduction()
	} else {
		lg, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return lg.Named(app).With(zap.String("env", cfg.Env)), nil
}
