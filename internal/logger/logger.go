package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// В development логи пишутся текстом, иначе JSON.
func Init(level string, development bool) {
	Log = New(os.Stdout, level, development)
}

// New создаёт отдельный логгер, используется в тестах и CLI.
func New(out io.Writer, level string, development bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if development {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// Component возвращает запись с полем component.
// Если Init не вызывался, логи отбрасываются.
func Component(name string) *logrus.Entry {
	l := Log
	if l == nil {
		l = logrus.New()
		l.SetOutput(io.Discard)
	}
	return l.WithField("component", name)
}
