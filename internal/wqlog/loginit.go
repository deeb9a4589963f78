/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// CoreLogFileName is file name of core log.
	CoreLogFileName = "core.log"

	// TrainingLogFileName is file name of training log.
	TrainingLogFileName = "training.log"
)

const (
	defaultRotateMaxSize    = 300
	defaultRotateMaxBackups = 50
	defaultRotateMaxAge     = 7
)

const (
	encodeTimeFormat = "2006-01-02 15:04:05.000"
)

// LogRotateConfig configures rotation of file loggers.
type LogRotateConfig struct {
	// Maximum size in megabytes of log files before rotation.
	MaxSize int

	// Maximum number of days to retain old log files.
	MaxAge int

	// Maximum number of old log files to keep.
	MaxBackups int
}

type logInitMeta struct {
	fileName             string
	setSugaredLoggerFunc func(*zap.SugaredLogger)
}

// InitPotability initializes loggers of the potability command, console mode
// writes to stderr and file mode writes rotated json logs under dir.
func InitPotability(verbose, console bool, dir string, rotateConfig LogRotateConfig) error {
	if console {
		return createConsoleLogger(verbose)
	}

	logDir := filepath.Join(dir, "potability")

	var meta = []logInitMeta{
		{
			fileName:             CoreLogFileName,
			setSugaredLoggerFunc: SetCoreLogger,
		},
		{
			fileName:             TrainingLogFileName,
			setSugaredLoggerFunc: SetTrainingLogger,
		},
	}

	return createFileLogger(verbose, meta, logDir, rotateConfig)
}

func createConsoleLogger(verbose bool) error {
	levels = nil
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel), zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	sugar := log.Sugar()
	SetCoreLogger(sugar)
	SetTrainingLogger(sugar)
	levels = append(levels, config.Level)
	return nil
}

func createFileLogger(verbose bool, meta []logInitMeta, logDir string, rotateConfig LogRotateConfig) error {
	levels = nil

	for _, m := range meta {
		log, level := CreateLogger(filepath.Join(logDir, m.fileName), verbose, rotateConfig)
		m.setSugaredLoggerFunc(log.Sugar())
		levels = append(levels, level)
	}

	return nil
}

// CreateLogger creates a json logger writing to a rotated file.
func CreateLogger(filePath string, verbose bool, rotateConfig LogRotateConfig) (*zap.Logger, zap.AtomicLevel) {
	if rotateConfig.MaxSize <= 0 {
		rotateConfig.MaxSize = defaultRotateMaxSize
	}

	if rotateConfig.MaxAge <= 0 {
		rotateConfig.MaxAge = defaultRotateMaxAge
	}

	if rotateConfig.MaxBackups <= 0 {
		rotateConfig.MaxBackups = defaultRotateMaxBackups
	}

	syncer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    rotateConfig.MaxSize,
		MaxAge:     rotateConfig.MaxAge,
		MaxBackups: rotateConfig.MaxBackups,
		LocalTime:  true,
	})

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(encodeTimeFormat)

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		syncer,
		level,
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel), zap.AddCallerSkip(1)), level
}
