/*
The resp package provides a high-level API for responding to HTTP requests
with an easy way to configure the responses application-wide.

resp provides four ways of responding to an HTTP request:
  - encoding data as JSON
  - passing through JSON bytes unmodified
  - writing a {"message", "details"} error envelope
  - redirecting
*/
package resp
