package domain

import "net/http"

// Action is the kind of operation an actor attempts on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActionForMethod maps an HTTP method onto an Action. Unknown methods map to
// ActionUpdate so they never pass as safe.
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost:
		return ActionCreate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionUpdate
	}
}

// Safe reports whether the action never mutates state.
func (a Action) Safe() bool { return a == ActionRead }

// Resource identifies the kind of record an action targets.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceUser     Resource = "user"
	ResourceSelf     Resource = "self"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
)

// Decision is the outcome of a permission check.
type Decision int

const (
	Deny Decision = iota
	Allow
	// NotAllowed marks an action that is structurally unavailable for the
	// resource regardless of who asks.
	NotAllowed
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case NotAllowed:
		return "not_allowed"
	default:
		return "deny"
	}
}

// Actor is the identity behind a request. The zero value is anonymous.
type Actor struct {
	User *User
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor { return Actor{} }

// ActorFor wraps an authenticated user.
func ActorFor(u *User) Actor { return Actor{User: u} }

func (a Actor) Authenticated() bool { return a.User != nil }

func (a Actor) IsAdmin() bool { return a.User != nil && a.User.IsAdmin() }

func (a Actor) IsModerator() bool { return a.User != nil && a.User.IsModerator() }

func (a Actor) IsSuperuser() bool { return a.User != nil && a.User.IsSuperuser }

// Owns reports whether the actor authored a record owned by ownerID.
func (a Actor) Owns(ownerID int64) bool { return a.User != nil && a.User.ID == ownerID }

// Owned is implemented by records that have an author.
type Owned interface {
	OwnerID() int64
}

// Policy decides access in two phases. HasPermission runs before the target
// is loaded and rejects callers that can never succeed; HasObjectPermission
// runs once the record is in hand. obj may be nil for collection actions.
type Policy interface {
	HasPermission(a Actor, act Action) Decision
	HasObjectPermission(a Actor, act Action, obj Owned) Decision
}

func allowIf(ok bool) Decision {
	if ok {
		return Allow
	}
	return Deny
}

// adminOrReadOnly guards the catalog: anyone reads, admins write.
type adminOrReadOnly struct{}

func (adminOrReadOnly) HasPermission(a Actor, act Action) Decision {
	return allowIf(act.Safe() || (a.Authenticated() && a.IsAdmin()))
}

func (p adminOrReadOnly) HasObjectPermission(a Actor, act Action, _ Owned) Decision {
	return p.HasPermission(a, act)
}

// adminOnly guards the administrative user endpoints.
type adminOnly struct{}

func (adminOnly) HasPermission(a Actor, _ Action) Decision {
	return allowIf(a.Authenticated() && a.IsAdmin())
}

func (p adminOnly) HasObjectPermission(a Actor, act Action, _ Owned) Decision {
	return p.HasPermission(a, act)
}

// selfService guards /users/me: the record is always the actor's own.
type selfService struct{}

func (selfService) HasPermission(a Actor, act Action) Decision {
	if !a.Authenticated() {
		return Deny
	}
	switch act {
	case ActionRead, ActionUpdate:
		return Allow
	default:
		return NotAllowed
	}
}

func (p selfService) HasObjectPermission(a Actor, act Action, _ Owned) Decision {
	return p.HasPermission(a, act)
}

// authorOrStaff guards reviews and comments: anyone reads, any authenticated
// user creates, and only the author or a privileged role edits or deletes.
type authorOrStaff struct{}

func (authorOrStaff) HasPermission(a Actor, act Action) Decision {
	return allowIf(act.Safe() || a.Authenticated())
}

func (p authorOrStaff) HasObjectPermission(a Actor, act Action, obj Owned) Decision {
	if act.Safe() {
		return Allow
	}
	if !a.Authenticated() {
		return Deny
	}
	if act == ActionCreate {
		return Allow
	}
	if a.IsSuperuser() || a.IsAdmin() || a.IsModerator() {
		return Allow
	}
	return allowIf(obj != nil && a.Owns(obj.OwnerID()))
}

var policies = map[Resource]Policy{
	ResourceCategory: adminOrReadOnly{},
	ResourceGenre:    adminOrReadOnly{},
	ResourceTitle:    adminOrReadOnly{},
	ResourceUser:     adminOnly{},
	ResourceSelf:     selfService{},
	ResourceReview:   authorOrStaff{},
	ResourceComment:  authorOrStaff{},
}

// PolicyFor returns the policy guarding r. Unknown resources get adminOnly.
func PolicyFor(r Resource) Policy {
	if p, ok := policies[r]; ok {
		return p
	}
	return adminOnly{}
}

// Check runs phase one for r and converts the decision into an error.
func Check(a Actor, act Action, r Resource) error {
	return DecisionError(a, PolicyFor(r).HasPermission(a, act))
}

// Authorize runs both phases for r against obj.
func Authorize(a Actor, act Action, r Resource, obj Owned) error {
	p := PolicyFor(r)
	if err := DecisionError(a, p.HasPermission(a, act)); err != nil {
		return err
	}
	return DecisionError(a, p.HasObjectPermission(a, act, obj))
}

// DecisionError converts d into the error reported to a: nil on Allow,
// ErrMethodNotAllowed on NotAllowed, and on Deny ErrNotAuthenticated for
// anonymous actors or ErrForbidden otherwise.
func DecisionError(a Actor, d Decision) error {
	switch d {
	case Allow:
		return nil
	case NotAllowed:
		return ErrMethodNotAllowed
	}
	if !a.Authenticated() {
		return ErrNotAuthenticated
	}
	return ErrForbidden
}
