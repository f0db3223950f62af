package event

import "github.com/google/uuid"

// Base is an embeddable Event implementation carrying only a Kind.
type Base struct {
	kind Kind
}

// NewBase creates a Base with the given kind.
func NewBase(kind Kind) Base {
	return Base{kind: kind}
}

// Kind returns the event kind.
func (b Base) Kind() Kind {
	return b.kind
}

// Chain is an embeddable Chainable implementation. A fresh Chain gets a
// random chain ID and member ID; use WithChainID to join an existing
// group.
type Chain struct {
	Base

	chainID   string
	memberID  string
	singleton bool
	onSuccess []Callback
	onFailure []Callback
}

// Option configures a Chain at construction time.
type Option func(*Chain)

// WithChainID places the event in an existing chain group instead of a
// fresh one.
func WithChainID(id string) Option {
	return func(c *Chain) {
		c.chainID = id
	}
}

// WithSingleton marks the event as mutually exclusive within its chain
// group: while any member of the group is in flight, new publishes of
// this event are dropped.
func WithSingleton() Option {
	return func(c *Chain) {
		c.singleton = true
	}
}

// OnSuccess appends a follow-up event dispatched after a subscriber
// completes normally. A nil target routes through the dispatch facade.
func OnSuccess(next Event, target Publisher) Option {
	return func(c *Chain) {
		c.onSuccess = append(c.onSuccess, Callback{Event: next, Target: target})
	}
}

// OnFailure appends a follow-up event dispatched after a subscriber
// fails. A nil target routes through the dispatch facade.
func OnFailure(next Event, target Publisher) Option {
	return func(c *Chain) {
		c.onFailure = append(c.onFailure, Callback{Event: next, Target: target})
	}
}

// NewChain creates a Chain with the given kind, a random chain ID, and
// a random member ID.
func NewChain(kind Kind, opts ...Option) Chain {
	c := Chain{
		Base:     NewBase(kind),
		chainID:  uuid.NewString(),
		memberID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ChainID returns the chain group identifier.
func (c Chain) ChainID() string {
	return c.chainID
}

// MemberID returns this event's identifier within the group.
func (c Chain) MemberID() string {
	return c.memberID
}

// Singleton reports whether the event is mutually exclusive within its
// chain group.
func (c Chain) Singleton() bool {
	return c.singleton
}

// SuccessCallbacks returns a copy of the success callback list.
func (c Chain) SuccessCallbacks() []Callback {
	out := make([]Callback, len(c.onSuccess))
	copy(out, c.onSuccess)
	return out
}

// FailureCallbacks returns a copy of the failure callback list.
func (c Chain) FailureCallbacks() []Callback {
	out := make([]Callback, len(c.onFailure))
	copy(out, c.onFailure)
	return out
}

// Compile-time interface check.
var _ Chainable = Chain{}
