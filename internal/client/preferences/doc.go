// Package preferences stores per-user display settings and the two global
// appearance keys (theme, language).
//
// A PreferenceSet lives under `userSettings_<owner>`, where owner is the
// logged-in username or "guest". Reads are forgiving: a missing, unreadable,
// partial or out-of-range record yields the full default set, never a merge.
// Writes are strict: Save rejects a set that would not load back.
//
// Manager holds the set of the current owner in memory, saves after every
// change and re-keys itself when the session switches user.
package preferences
