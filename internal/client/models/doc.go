// Package models holds the wire and cache types shared by the API adapter,
// the session store and the services: user profiles, auth payloads and
// journal entries. JSON tags follow the remote API; `validate` tags describe
// the minimum shape a server response must have to be accepted.
package models
