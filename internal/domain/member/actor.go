package member

import "sort"

type Capability string

// CapabilityOverride lets an actor book, edit and cancel on behalf of other
// members, including back-dated entries.
const CapabilityOverride Capability = "override_reservering"

// ActorContext identifies who performs an operation. It is passed explicitly
// into every use case; nothing reads the current user from ambient state.
type ActorContext struct {
	userID       int64
	capabilities map[Capability]struct{}
}

func NewActorContext(userID int64, capabilities ...Capability) ActorContext {
	caps := make(map[Capability]struct{}, len(capabilities))
	for _, c := range capabilities {
		if c == "" {
			continue
		}
		caps[c] = struct{}{}
	}
	return ActorContext{userID: userID, capabilities: caps}
}

// ActorFromClaims builds an actor from token claims, ignoring unknown strings.
func ActorFromClaims(userID int64, capabilities []string) ActorContext {
	caps := make([]Capability, 0, len(capabilities))
	for _, c := range capabilities {
		caps = append(caps, Capability(c))
	}
	return NewActorContext(userID, caps...)
}

func (a ActorContext) UserID() int64 { return a.userID }

func (a ActorContext) Has(c Capability) bool {
	_, ok := a.capabilities[c]
	return ok
}

func (a ActorContext) CanOverride() bool { return a.Has(CapabilityOverride) }

func (a ActorContext) Authenticated() bool { return a.userID > 0 }

func (a ActorContext) Capabilities() []string {
	out := make([]string, 0, len(a.capabilities))
	for c := range a.capabilities {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}
