// Package ratelimit implements Plentymarkets API throttling-window
// tracking. The API advertises three budgets per response - one for the
// called route, a short global period and a long global period - through
// the X-Plenty-* headers. This package parses those headers into a
// Window snapshot and keeps the cooldown state consulted before the
// next call.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
)

// Throttling headers sent by the Plentymarkets REST API.
const (
	HeaderRouteCallsLeft = "X-Plenty-Route-Calls-Left"
	HeaderRouteDecay     = "X-Plenty-Route-Decay"
	HeaderShortCallsLeft = "X-Plenty-Global-Short-Period-Calls-Left"
	HeaderShortDecay     = "X-Plenty-Global-Short-Period-Decay"
	HeaderLongCallsLeft  = "X-Plenty-Global-Long-Period-Calls-Left"
	HeaderLongDecay      = "X-Plenty-Global-Long-Period-Decay"
)

// LimitReachedSentinel is the literal value the API puts into a
// calls-left header once a budget is fully consumed.
const LimitReachedSentinel = "--- EMPTY ---"

// callsLeftExhausted is the remaining-calls value at or below which a
// budget is treated as used up. The server rejects the call after the
// last one, so stopping at 1 keeps a call in reserve.
const callsLeftExhausted = 1

// counter is one calls-left value. Present distinguishes a header that
// was absent from one that reported zero.
type counter struct {
	Present   bool
	Exhausted bool
	Value     int
}

func parseCounter(raw string, present bool) counter {
	c := counter{Present: present}
	if !present {
		return c
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == LimitReachedSentinel {
		c.Exhausted = true
		return c
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.Exhausted = true
		return c
	}
	c.Value = n
	c.Exhausted = n <= callsLeftExhausted
	return c
}

// Window is a per-response snapshot of the three throttling budgets.
// It is recomputed for every response and never stored.
type Window struct {
	Route      counter
	Short      counter
	Long       counter
	RouteDecay int
	ShortDecay int
	LongDecay  int
}

// ParseWindow reads the throttling headers of one response. A header
// that is present with an empty value means zero remaining calls, so
// presence is detected on the header map, not on the value.
func ParseWindow(h http.Header) Window {
	route, routeOK := headerValue(h, HeaderRouteCallsLeft)
	short, shortOK := headerValue(h, HeaderShortCallsLeft)
	long, longOK := headerValue(h, HeaderLongCallsLeft)
	return Window{
		Route:      parseCounter(route, routeOK),
		Short:      parseCounter(short, shortOK),
		Long:       parseCounter(long, longOK),
		RouteDecay: parseSeconds(h.Get(HeaderRouteDecay)),
		ShortDecay: parseSeconds(h.Get(HeaderShortDecay)),
		LongDecay:  parseSeconds(h.Get(HeaderLongDecay)),
	}
}

func headerValue(h http.Header, key string) (value string, present bool) {
	values, ok := h[http.CanonicalHeaderKey(key)]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func parseSeconds(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// GlobalLimitReached reports whether the long global budget is used up.
// Continuing to call would certainly be rejected, so the caller must
// stop instead of retrying.
func (w Window) GlobalLimitReached() bool {
	return w.Long.Present && w.Long.Exhausted
}

// NearLimit reports whether the route budget - or, when the route
// headers are absent, the short global budget - is about to run out,
// and returns the advertised wait time for that budget.
func (w Window) NearLimit() (waitSeconds int, near bool) {
	limit, decay := w.Route, w.RouteDecay
	if !limit.Present {
		limit, decay = w.Short, w.ShortDecay
	}
	if limit.Present && limit.Exhausted {
		return decay, true
	}
	return 0, false
}
