package logging

import "github.com/rs/zerolog"

// Dual forwards each message to two sinks: the customer-facing
// progress log and the developer log. It replaces dynamic dispatch
// with a fixed set of severity methods.
type Dual struct {
	customer zerolog.Logger
	dev      zerolog.Logger
}

// NewDual wires the two sinks together.
func NewDual(customer, dev zerolog.Logger) Dual {
	return Dual{customer: customer, dev: dev}
}

// Customer returns the customer-facing sink for messages that should
// not reach the developer stream.
func (d Dual) Customer() zerolog.Logger {
	return d.customer
}

// Dev returns the developer sink for technical detail.
func (d Dual) Dev() zerolog.Logger {
	return d.dev
}

func (d Dual) Trace(msg string) {
	d.customer.Trace().Msg(msg)
	d.dev.Trace().Msg(msg)
}

func (d Dual) Debug(msg string) {
	d.customer.Debug().Msg(msg)
	d.dev.Debug().Msg(msg)
}

func (d Dual) Info(msg string) {
	d.customer.Info().Msg(msg)
	d.dev.Info().Msg(msg)
}

func (d Dual) Warn(msg string) {
	d.customer.Warn().Msg(msg)
	d.dev.Warn().Msg(msg)
}

func (d Dual) Error(msg string) {
	d.customer.Error().Msg(msg)
	d.dev.Error().Msg(msg)
}

// Fatal logs at error severity on both sinks. Terminating the process
// is left to the caller.
func (d Dual) Fatal(msg string) {
	d.customer.Error().Msg(msg)
	d.dev.Error().Msg(msg)
}
