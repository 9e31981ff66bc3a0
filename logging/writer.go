package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileMaxSizeMB = 100

//NewWriter returns stdout writer or Dual (rolling file + stdout) writer
//depending on configured file dir
func NewWriter(config Config) io.Writer {
	if config.FileDir == "" {
		return os.Stdout
	}

	return Dual{
		fileWriter: newRollingWriter(config),
		stdout:     os.Stdout,
	}
}

func newRollingWriter(config Config) io.Writer {
	fileNamePath := filepath.Join(config.FileDir, fmt.Sprintf("%s-%s.log", config.ServerName, config.LoggerName))
	lWriter := &lumberjack.Logger{
		Filename: fileNamePath,
		MaxSize:  logFileMaxSizeMB,
	}
	if config.MaxBackups > 0 {
		lWriter.MaxBackups = config.MaxBackups
	}

	if config.RotationMin > 0 {
		rotation := time.Duration(config.RotationMin) * time.Minute
		ticker := time.NewTicker(rotation)
		go func() {
			for {
				<-ticker.C
				lWriter.Rotate()
			}
		}()
	}

	return lWriter
}
