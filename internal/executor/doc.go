/*
Package executor issues single requests against the chat backend and
normalizes every outcome into a types.Result.

# Requests

Execute takes an endpoint descriptor and an optional raw body. POST bodies
are validated as JSON before anything is sent; GET requests ignore the body
entirely. Every request carries Content-Type: application/json, the
configured static headers and a fresh X-Request-ID.

Chat wraps the completion route: it encodes a types.ChatRequest and extracts
the "response" string from the reply.

# Failures

Nothing in this package returns a Go error at request time. Failures are
reported as error results with one of four kinds:

	InvalidRequestBody    body is not valid JSON, no request sent
	NetworkFailure        transport error, message from the categorizer
	BackendError          non-2xx status, "HTTP <status>: <detail|error>"
	ResponseParseFailure  2xx with a body that is not JSON

There is no retry and no client timeout. Callers cancel through the context.

# Transport

The HTTP client is a Doer, so tests can inject counting or failing
transports. The default client supports a custom CA file, client
certificates and InsecureSkipVerify.
*/
package executor
