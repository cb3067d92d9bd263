// Package common contains shared constants and sentinel errors used across
// gateway components.
package common

// SessionCookieName is the cookie that carries the signed session token
// between the client and the gateway.
const SessionCookieName = "ag_session"
