package state

import (
	cosmoslog "cosmossdk.io/log"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

// cosmosLogger lets iavl log through the node's cometbft logger.
type cosmosLogger struct {
	logger cmtlog.Logger
}

func NewCosmosLogger(lg cmtlog.Logger) cosmoslog.Logger {
	return cosmosLogger{logger: lg}
}

func (l cosmosLogger) Info(msg string, keyVals ...any) {
	l.logger.Info(msg, keyVals...)
}

func (l cosmosLogger) Error(msg string, keyVals ...any) {
	l.logger.Error(msg, keyVals...)
}

func (l cosmosLogger) Debug(msg string, keyVals ...any) {
	l.logger.Debug(msg, keyVals...)
}

func (l cosmosLogger) With(keyVals ...any) cosmoslog.Logger {
	return cosmosLogger{l.logger.With(keyVals...)}
}

func (l cosmosLogger) Impl() any {
	return l.logger
}
