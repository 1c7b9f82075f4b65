// Package log holds the process-wide zap logger. Console output goes to
// stderr so that stdout only carries formatted documents.
package log

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var zaplogger *zap.Logger

func init() {
	if err := InitConsoleLog("SIMPLE", "WARN"); err != nil {
		panic(err)
	}
}

var levelMap = map[string]zapcore.Level{
	"DEBUG": zapcore.DebugLevel,
	"INFO":  zapcore.InfoLevel,
	"WARN":  zapcore.WarnLevel,
	"ERROR": zapcore.ErrorLevel,
	"FATAL": zapcore.FatalLevel,
}

var modeMap = map[string]ModeEncoder{
	"SIMPLE": getSimpleEncoder,
	"FULL":   getFullEncoder,
}

// Options selects the log destination, level and encoder.
type Options struct {
	Mode  string // SIMPLE or FULL
	Level string // DEBUG, INFO, WARN, ERROR, FATAL
	// Filename enables a rotating file sink in addition to the console.
	Filename string
}

// Init configures the logger. An empty Filename logs to the console only.
func Init(opt Options) error {
	if opt.Filename == "" {
		return InitConsoleLog(opt.Mode, opt.Level)
	}
	return InitMultiLog(opt.Mode, opt.Level, opt.Filename)
}

// InitConsoleLog sets the console log level and mode.
func InitConsoleLog(mode, level string) error {
	modeEncoder, zapLevel, err := getEncoderAndLevel(mode, level)
	if err != nil {
		return err
	}
	core := zapcore.NewCore(modeEncoder(), createConsoleWriter(), zapLevel)
	zaplogger = zap.New(core)
	return nil
}

// InitMultiLog logs to both the console and a rotating file.
func InitMultiLog(mode, level, filename string) error {
	modeEncoder, zapLevel, err := getEncoderAndLevel(mode, level)
	if err != nil {
		return err
	}
	core := zapcore.NewCore(
		modeEncoder(),
		zapcore.NewMultiWriteSyncer(createConsoleWriter(), createFileWriter(filename)),
		zapLevel,
	)
	zaplogger = zap.New(core, zap.AddCaller())
	return nil
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	return zaplogger
}

// NewSugar returns a named sugared logger.
func NewSugar(name string) *zap.SugaredLogger {
	return Logger().Named(name).Sugar()
}

// Sync flushes buffered entries.
func Sync() {
	_ = Logger().Sync()
}

func getEncoderAndLevel(mode, level string) (ModeEncoder, zapcore.Level, error) {
	if mode == "" {
		mode = "SIMPLE"
	}
	if level == "" {
		level = "WARN"
	}
	modeEncoder, ok := modeMap[strings.ToUpper(mode)]
	if !ok {
		return nil, zapcore.DebugLevel, fmt.Errorf("illegal log mode: %s", mode)
	}
	zapLevel, ok := levelMap[strings.ToUpper(level)]
	if !ok {
		return nil, zapcore.DebugLevel, fmt.Errorf("illegal log level: %s", level)
	}
	return modeEncoder, zapLevel, nil
}

func createConsoleWriter() zapcore.WriteSyncer {
	return zapcore.Lock(zapcore.AddSync(os.Stderr))
}

func createFileWriter(filename string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10, // megabytes
		MaxAge:     30, // days
		MaxBackups: 7,
		LocalTime:  true,
	})
}

// ModeEncoder builds the encoder for a log mode.
type ModeEncoder func() zapcore.Encoder

func getSimpleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.CallerKey = ""
	encoderConfig.FunctionKey = ""
	encoderConfig.TimeKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func getFullEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.FunctionKey = "func"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = "|"
	return zapcore.NewConsoleEncoder(encoderConfig)
}
