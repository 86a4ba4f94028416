/*
Package req provides ergonomics for handling an HTTP request.

Package req provides a helper for parsing parameters in an HTTP request,
whether carried in the query string or in a url-encoded POST body.
Parameters are parsed into a pointer to a struct.
That struct ought to leverage the appropriate struct tags for performing two tasks.
First, matching keys in the payload to fields on the struct with "schema" tags.
Second, validating the payload's data meets requirements with "validate" tags.

Besides the rules of go-playground/validator, req registers "relpath",
accepting only paths on the same origin, such as "/dashboard".

Errors are translated to relay sentinel errors.
*/
package req
