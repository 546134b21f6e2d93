// Package session keeps the authenticated session: the bearer token, the
// user id and a cached copy of the user's profile.
//
// The three values are persisted under the `token`, `userId` and `userInfo`
// keys of a metadata.Repository and mirrored in memory. Writers go through
// Commit, UpdateUser and Clear; each write lands in storage as one atomic
// batch before the in-memory snapshot is swapped, so readers of Current never
// see a token paired with a stale user id.
//
// Every Commit and Clear bumps a generation counter. Code that starts a
// request while a session is active captures Generation() first and hands it
// back to UpdateUser; if the session was replaced or cleared meanwhile the
// update is dropped with ErrStaleGeneration.
package session
