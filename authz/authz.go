// Package authz decides whether an acting user may mutate a record.
// Reads are unrestricted (the gateway already authenticated the call);
// writes require the actor to be an administrator or to own the target,
// directly or through the target's team. Ownership is resolved through
// the Owned capability each entity type declares, never by probing
// fields at runtime.
package authz

import "github.com/gofiber/fiber/v2"

// Actor is the identity forwarded by the gateway. The ID is opaque to
// this service; Admin is derived from the forwarded roles.
type Actor struct {
	ID    string
	Admin bool
}

// ActorFromCtx pulls the acting identity the auth middleware stored in
// Locals. Routes outside a secured group get a zero (anonymous) actor.
func ActorFromCtx(c *fiber.Ctx) Actor {
	if a, ok := c.Locals("actor").(Actor); ok {
		return a
	}
	return Actor{}
}

// Owned is implemented by every entity that can resolve an owning user,
// either from a direct owner column or through its one "belongs to
// team" hop. The bool is false when no owner can be resolved (e.g. a
// player without a team).
type Owned interface {
	OwnerID() (string, bool)
}

// CanWrite reports whether the actor may create, update or delete the
// target. Passing nil means the entity type carries no ownership path
// at all (sports, tournaments, statistics), which only administrators
// may touch.
func CanWrite(actor Actor, target Owned) bool {
	if actor.Admin {
		return true
	}
	if target == nil || actor.ID == "" {
		return false
	}
	owner, ok := target.OwnerID()
	return ok && owner == actor.ID
}

// CanRead always grants: read access is unrestricted once a request
// made it past the gateway.
func CanRead(Actor) bool { return true }
