package shared

import "context"

type sessionContextKey struct{}
type actorContextKey struct{}

// Actor is the authenticated identity acting on a request. Non-admin
// actors only see rows whose user id matches theirs; admins see every
// row of their company.
type Actor struct {
	UserID    int64
	CompanyID int64
	Admin     bool
}

// OwnerFilter returns the user id restriction to apply to queries, or
// nil when the actor has company-wide visibility.
func (a Actor) OwnerFilter() *int64 {
	if a.Admin {
		return nil
	}
	id := a.UserID
	return &id
}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithActor stores the resolved actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}
