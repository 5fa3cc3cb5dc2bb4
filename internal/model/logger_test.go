package model

import (
	"io"
	"testing"
)

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("foo")
	logger.Debugf("%s", "foo")
	logger.Info("foo")
	logger.Infof("%s", "foo")
	logger.Warn("foo")
	logger.Warnf("%s", "foo")
}

func TestValidLoggerOrDefault(t *testing.T) {
	t.Run("with nil", func(t *testing.T) {
		if ValidLoggerOrDefault(nil) != DiscardLogger {
			t.Fatal("expected DiscardLogger")
		}
	})

	t.Run("with a logger", func(t *testing.T) {
		logger := &discardLogger{}
		if ValidLoggerOrDefault(logger) != logger {
			t.Fatal("expected the same logger")
		}
	})
}

func TestErrorToStringOrOK(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		if ErrorToStringOrOK(nil) != "ok" {
			t.Fatal("expected ok")
		}
	})

	t.Run("on failure", func(t *testing.T) {
		if got := ErrorToStringOrOK(io.EOF); got != io.EOF.Error() {
			t.Fatal("not the result we expected", got)
		}
	})
}
