package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/riahunter/backend/pkg/config"
)

// New builds the process-wide sugared logger. Dev gets the console encoder
// at debug level; everything else gets production JSON.
func New(cfg *cfgpkg.Config) (*zap.SugaredLogger, error) {
	var zcfg zap.Config
	if cfg.Env == cfgpkg.EnvDev {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.TimeKey = "time"
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
