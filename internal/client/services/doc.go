// Package services contains the client's application services: the login,
// registration and logout flows, profile synchronization and journal
// entries. Services talk to the server through api.Client and keep state in
// the session store; they never render anything.
package services
