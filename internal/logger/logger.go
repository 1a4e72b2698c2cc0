package logger

import "go.uber.org/zap"

// New builds a sugared zap logger for the given environment. Development
// gets the human-readable console encoder, everything else the production
// JSON encoder.
func New(env string) (*zap.SugaredLogger, error) {
	var l *zap.Logger
	var err error
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
