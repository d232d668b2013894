package orchestrator

import "context"

// TicketHook optionally records a ticket/CMDB entry when a host is held
// at finalize. Source treats this as an audit-only hook, not implemented
// end-to-end (spec.md §9); the default is a no-op.
type TicketHook interface {
	Open(ctx context.Context, hostname, reason string) error
}

// NoopTicketHook is the default TicketHook: it does nothing.
type NoopTicketHook struct{}

func (NoopTicketHook) Open(ctx context.Context, hostname, reason string) error { return nil }
