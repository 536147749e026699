package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/classgo/pkg/errors"
)

// InitWarningLogger routes warnings raised through pkg/errors to a zerolog
// logger writing to w (stderr when w is nil). Warning types implementing
// zerolog.LogObjectMarshaler are emitted as structured objects.
func InitWarningLogger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := zerolog.New(w).With().Timestamp().Str("source", "classgo").Logger()

	errors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event.Object("warning", marshaler)
		}
		event.Msg(warning.Error())
	})

	return logger
}
