package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the service logger. With an empty file it writes JSON to stdout;
// otherwise it writes to a size-rotated log file.
func New(file string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	sink := zapcore.AddSync(os.Stdout)
	if file != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename: file, MaxSize: 100, MaxAge: 28, Compress: true,
		})
	}

	return zap.New(zapcore.NewCore(encoder, sink, zap.InfoLevel))
}
