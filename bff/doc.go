/*
Package bff is the Backend-for-Frontend the web client talks to.

It signs users in against the identity provider, keeps their tokens in an encrypted session cookie,
and relays API calls to the resource server on their behalf.

Routes:

	GET       /api/auth/signin[?callbackUrl=]           redirect to the identity provider
	GET|POST  /api/auth/callback/microsoft-entra-id     complete sign-in, redirect to callbackUrl
	POST      /api/auth/signout                         expire the session, redirect to /
	GET       /api/auth/session                         the client-safe session view
	GET       /api/weather                              forward to the resource server
	GET       /healthz                                  liveness
*/
package bff
