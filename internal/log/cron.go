package log

import "github.com/robfig/cron/v3"

type cronLogger struct {
	logger *Logger
}

// CronLogger adapts logger to cron.Logger. Cron's routine wake and run
// messages go to debug.
func CronLogger(logger *Logger) cron.Logger {
	return cronLogger{logger: logger.WithComponent(ComponentScheduler)}
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(msg, append([]any{FieldError, err}, keysAndValues...)...)
}
