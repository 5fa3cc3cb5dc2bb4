package logx

//
// Logging long-running operations
//

import (
	"fmt"
	"sync"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
)

// OperationLogger logs the beginning and the end of an operation. The
// final line is emitted at info level when the operation took longer than
// half a second and at debug level otherwise.
type OperationLogger struct {
	logger   model.Logger
	maxwait  time.Duration
	message  string
	once     sync.Once
	progress bool
	sighup   chan any
	wg       sync.WaitGroup
}

// NewOperationLogger starts logging an operation. Use Stop to
// report its result.
func NewOperationLogger(logger model.Logger, format string, v ...any) *OperationLogger {
	return newOperationLogger(logger, 500*time.Millisecond, fmt.Sprintf(format, v...))
}

func newOperationLogger(logger model.Logger, maxwait time.Duration, message string) *OperationLogger {
	ol := &OperationLogger{
		logger:  model.ValidLoggerOrDefault(logger),
		maxwait: maxwait,
		message: message,
		sighup:  make(chan any),
	}
	ol.logger.Debugf("%s...", ol.message)
	ol.wg.Add(1)
	go ol.maybeEmitProgress()
	return ol
}

func (ol *OperationLogger) maybeEmitProgress() {
	defer ol.wg.Done()
	timer := time.NewTimer(ol.maxwait)
	defer timer.Stop()
	select {
	case <-timer.C:
		ol.progress = true
		ol.logger.Infof("%s... in progress", ol.message)
	case <-ol.sighup:
	}
}

// Stop reports the result of the operation. The value is
// either nil, an error, or an arbitrary printable value.
func (ol *OperationLogger) Stop(value any) {
	ol.once.Do(func() {
		close(ol.sighup)
		ol.wg.Wait()
		result := stringifyResult(value)
		if ol.progress {
			ol.logger.Infof("%s... %s", ol.message, result)
			return
		}
		ol.logger.Debugf("%s... %s", ol.message, result)
	})
}

func stringifyResult(value any) string {
	switch v := value.(type) {
	case nil:
		return "ok"
	case error:
		return model.ErrorToStringOrOK(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
