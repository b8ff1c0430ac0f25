// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package achan

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures a channel created by New.
type Option func(*config)

type config struct {
	runner Runner
	logger logrus.FieldLogger
	name   string
	onFree func()
}

// discardLogger is the default logger: level Info, output discarded,
// so the channel's debug events cost a level check only.
var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func parseConfig(opts []Option) config {
	c := config{
		runner: Immediate,
		logger: discardLogger,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithRunner sets the Runner that resumes parked operations.
// A nil Runner keeps the default, Immediate.
func WithRunner(r Runner) Option {
	return func(c *config) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithLogger sets the logger for channel lifecycle events.
// Events are logged at debug level with "chan" and "name" fields.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithName labels the channel in log entries.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithFreeHook registers f to run once, after the last handle and the last
// operation of the channel are gone and its state has been freed.
func WithFreeHook(f func()) Option {
	return func(c *config) {
		c.onFree = f
	}
}
