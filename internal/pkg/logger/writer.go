package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// LogWriter 实现 gorm logger.Writer，SQL 日志与应用日志写到同一输出
type LogWriter struct {
	zapcore.WriteSyncer
}

func (l *LogWriter) Printf(format string, args ...interface{}) {
	_, _ = l.WriteSyncer.Write([]byte(fmt.Sprintf(format, args...) + "\n"))
}

func GetWriter() *LogWriter {
	return logWriter
}
