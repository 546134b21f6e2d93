/*
Package fakeapi is an in-memory implementation of the travel-journal REST API.

It serves the same routes and JSON shapes as the production backend (users,
HS256 JWT auth, avatar upload, journal entries) so the client can be
exercised end to end without a real server. Passwords are bcrypt hashed and
tokens carry `sub` (the user id) and a 7-day `exp`.

Errors are written as {"error": "..."} with the backend's status codes.
Tests can force any route to fail with Fail and reset faults with Heal.
*/
package fakeapi
