// Package policy decides who may perform which action on which resource.
//
// A Policy is an ordered list of rules. Rules are evaluated in order and
// short-circuit: the first rule that decides wins, rules that do not
// apply defer to the next one. A policy that runs out of rules denies.
package policy

import "github.com/google/uuid"

// Action is an operation an actor attempts on a resource.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Mutates reports whether the action writes.
func (a Action) Mutates() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Reason tags a denial so callers can map it to a distinct failure:
// a missing actor is an authentication problem, a present actor that is
// not the owner is a permission problem.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotOwner        Reason = "not_owner"
	ReasonNoRule          Reason = "no_rule"
)

// Verdict is the outcome of a policy decision.
type Verdict struct {
	Allow  bool
	Reason Reason
}

var allowed = Verdict{Allow: true}

func denied(r Reason) Verdict { return Verdict{Reason: r} }

// Request carries everything a rule may inspect. Actor is uuid.Nil for
// anonymous requests. Owner is uuid.Nil when the resource has no owner
// (groups) or when the action targets no existing resource (create, list).
type Request struct {
	Actor  uuid.UUID
	Action Action
	Owner  uuid.UUID
}

// Authenticated reports whether the request carries an actor.
func (r Request) Authenticated() bool { return r.Actor != uuid.Nil }

// Rule inspects one aspect of a request. It returns decided=false to
// defer to the next rule in the policy.
type Rule func(r Request) (v Verdict, decided bool)

// AllowReads decides allow for non-mutating actions.
func AllowReads(r Request) (Verdict, bool) {
	if !r.Action.Mutates() {
		return allowed, true
	}
	return Verdict{}, false
}

// RequireActor denies anonymous requests; authenticated ones pass on.
func RequireActor(r Request) (Verdict, bool) {
	if !r.Authenticated() {
		return denied(ReasonUnauthenticated), true
	}
	return Verdict{}, false
}

// RequireOwner denies actors other than the resource owner. Requests
// with no owner (create into an unowned collection) pass on.
func RequireOwner(r Request) (Verdict, bool) {
	if r.Owner == uuid.Nil {
		return Verdict{}, false
	}
	if r.Actor != r.Owner {
		return denied(ReasonNotOwner), true
	}
	return allowed, true
}

// AllowAll decides allow unconditionally. Used as a terminal rule.
func AllowAll(Request) (Verdict, bool) { return allowed, true }

// Policy is an ordered rule list.
type Policy struct {
	rules []Rule
}

// New builds a policy from rules, evaluated in the given order.
func New(rules ...Rule) Policy { return Policy{rules: rules} }

// Decide runs the rules in order and returns the first verdict.
// A request no rule decides is denied.
func (p Policy) Decide(r Request) Verdict {
	for _, rule := range p.rules {
		if v, ok := rule(r); ok {
			return v
		}
	}
	return denied(ReasonNoRule)
}

// The three access models this API uses.
var (
	// OwnerOrReadOnly: anyone reads, only the authenticated owner writes.
	// Posts and comments.
	OwnerOrReadOnly = New(AllowReads, RequireActor, RequireOwner, AllowAll)

	// AuthenticatedWrite: anyone reads, any authenticated actor writes.
	// Groups, which have no owner.
	AuthenticatedWrite = New(AllowReads, RequireActor, AllowAll)

	// AuthenticatedOnly: every action requires an actor. Follows.
	AuthenticatedOnly = New(RequireActor, AllowAll)
)
