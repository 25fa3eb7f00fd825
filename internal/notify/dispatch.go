package notify

import (
	"context"
	"log/slog"
	"strings"
)

// BridgeTransport delivers to relay-format tokens (Expo).
type BridgeTransport interface {
	SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) (success, failed int, err error)
}

// NativeTransport delivers to platform-gateway tokens (FCM).
type NativeTransport interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (success, failed int, err error)
}

// Dispatcher routes a token set across both transports and aggregates the
// outcome. A transport failure degrades that branch's whole token count to
// failures instead of propagating; the other branch still attempts
// delivery, so an unreachable provider never aborts a send.
type Dispatcher struct {
	bridge BridgeTransport
	native NativeTransport // may be nil when FCM is not configured
	logger *slog.Logger
}

// NewDispatcher wires the two transports. native may be nil; its tokens are
// then counted as failures.
func NewDispatcher(bridge BridgeTransport, native NativeTransport, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{bridge: bridge, native: native, logger: logger}
}

// SplitTokens partitions tokens by structural kind: anything carrying the
// bridge prefix goes to the relay, every other non-empty string goes to the
// native gateway. Empty strings are dropped.
func SplitTokens(tokens []string) (bridge, native []string) {
	for _, t := range tokens {
		switch {
		case t == "":
		case strings.HasPrefix(t, BridgeTokenPrefix):
			bridge = append(bridge, t)
		default:
			native = append(native, t)
		}
	}
	return bridge, native
}

// Send fans the token set out to both transports and returns the summed
// outcome. An empty set short-circuits to a zero outcome without any
// network call. Whenever both branches complete, Success+Failure equals
// the number of non-empty tokens.
func (d *Dispatcher) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) Outcome {
	if len(tokens) == 0 {
		return Outcome{}
	}

	bridge, native := SplitTokens(tokens)
	var total Outcome

	if len(bridge) > 0 {
		ok, failed, err := d.bridge.SendBatch(ctx, bridge, title, body, data)
		if err != nil {
			d.logger.Warn("bridge transport failed, counting branch as failures",
				"tokens", len(bridge), "error", err)
			total = total.add(Outcome{Failure: len(bridge)})
		} else {
			total = total.add(Outcome{Success: ok, Failure: failed})
		}
	}

	if len(native) > 0 {
		if d.native == nil {
			d.logger.Warn("native transport not configured, counting branch as failures",
				"tokens", len(native))
			total = total.add(Outcome{Failure: len(native)})
		} else if ok, failed, err := d.native.SendMulticast(ctx, native, title, body, data); err != nil {
			d.logger.Warn("native transport failed, counting branch as failures",
				"tokens", len(native), "error", err)
			total = total.add(Outcome{Failure: len(native)})
		} else {
			total = total.add(Outcome{Success: ok, Failure: failed})
		}
	}

	return total
}
