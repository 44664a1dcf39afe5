// Package trace records what a computation did, in place of printing as it goes.
// A nil *Log is valid and records nothing.
package trace

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type Event struct {
	Stage  string
	Fields map[string]any
}

type Log struct {
	Events []Event
}

func New() *Log {
	return &Log{}
}

// Add 记录一个阶段，kv 为成对的 key/value
func (l *Log) Add(stage string, kv ...any) {
	if l == nil {
		return
	}
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		fields["extra"] = kv[len(kv)-1]
	}
	l.Events = append(l.Events, Event{Stage: stage, Fields: fields})
}

func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Events)
}

// Stages 按记录顺序返回阶段名
func (l *Log) Stages() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.Events))
	for i, e := range l.Events {
		out[i] = e.Stage
	}
	return out
}

// Emit writes every event at debug level.
func (l *Log) Emit(logger logrus.FieldLogger) {
	if l == nil || logger == nil {
		return
	}
	for _, e := range l.Events {
		logger.WithFields(logrus.Fields(e.Fields)).Debug(e.Stage)
	}
}
