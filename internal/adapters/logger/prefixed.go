package logger

import (
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/ports"
)

type prefixed struct {
	next   ports.Logger
	prefix string
}

// Prefixed returns a logger that tags every message with "[prefix] " and
// every error with a source field.
func Prefixed(next ports.Logger, prefix string) ports.Logger {
	return &prefixed{next: next, prefix: prefix}
}

func (p *prefixed) tag(msg string) string {
	return "[" + p.prefix + "] " + msg
}

func (p *prefixed) Debug(msg string) { p.next.Debug(p.tag(msg)) }
func (p *prefixed) Info(msg string) { p.next.Info(p.tag(msg)) }
func (p *prefixed) Success(msg string) { p.next.Success(p.tag(msg)) }
func (p *prefixed) Warn(msg string) { p.next.Warn(p.tag(msg)) }

func (p *prefixed) Error(err error) {
	if err == nil {
		return
	}
	p.next.Error(zerr.With(err, "source", p.prefix))
}
