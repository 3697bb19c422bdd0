package logger

import "go.uber.org/zap"

// New builds the application logger. The returned cleanup flushes any
// buffered entries and should run on shutdown.
func New(production bool) (*zap.SugaredLogger, func() error, error) {
	var (
		base *zap.Logger
		err  error
	)
	if production {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}
	return base.Sugar(), func() error { return base.Sync() }, nil
}
