/*
Package auth relays a user's identity provider tokens into a server-held session.

# Artifact

An [Artifact] is the server-side record of a sign-in: the provider access token,
its expiry, an optional refresh token, and the roles and identity claims of the user.
It is stored gob-encoded in an encrypted session cookie and never reaches the browser.

[Persist] and [Project] are pure functions over an Artifact.
Persist folds a sign-in [Event] into an Artifact; every other event leaves it unchanged.
Project derives the [ClientView] a browser may see: name, email, roles, and an error tag.

# Relay

A [Relay] drives the authorization code flow against an [Exchanger].
[Provider] is the Exchanger backed by an OpenID Connect issuer,
using PKCE, a nonce bound to the ID token, and a state value carried in a [Flow].

Refresh is not attempted: an Artifact whose access token has expired is stale
and the user signs in again.
*/
package auth
