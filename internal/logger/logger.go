package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zap.Logger with additional functionality
type Logger struct {
	*zap.Logger
}

// Config contains logger configuration
type Config struct {
	Level  string
	Format string // json or console
	File   *FileConfig
}

// FileConfig contains file logging configuration
type FileConfig struct {
	Enabled  bool
	Path     string
	MaxSize  int // MB
	MaxAge   int // days
	Compress bool
}

// New creates a new logger instance. Console output goes to stderr: stdout
// is the MCP protocol channel in stdio mode and must stay clean.
func New(config Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	if config.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	var encoder zapcore.Encoder
	if config.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var cores []zapcore.Core

	consoleCore := zapcore.NewCore(
		encoder,
		zapcore.AddSync(os.Stderr),
		level,
	)
	cores = append(cores, consoleCore)

	// File output (if enabled), rotated by lumberjack
	if config.File != nil && config.File.Enabled {
		rotator := &lumberjack.Logger{
			Filename: config.File.Path,
			MaxSize:  config.File.MaxSize,
			MaxAge:   config.File.MaxAge,
			Compress: config.File.Compress,
		}

		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		)
		cores = append(cores, fileCore)
	}

	core := zapcore.NewTee(cores...)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return &Logger{Logger: logger}, nil
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithComponent adds a component name to the logger context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("component", component))}
}

// WithTool adds an MCP tool name to the logger context
func (l *Logger) WithTool(tool string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("tool", tool))}
}
