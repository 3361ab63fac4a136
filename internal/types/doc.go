/*
Package types defines the data shared by every restchat package.

# Endpoints

Endpoint describes one backend route (path, method, description and an
optional sample body). Descriptors are built once by the registry and never
modified afterwards.

# Conversation

Turn is one chat message tagged with its Role. HistoryEntry is the paired
user/assistant form the backend expects in conversation_history; it is
always derived from turns, never stored.

# Results

Result is the normalized outcome of one request. It is a tagged value: either
a success (Status, Data) or a failure (Error, Kind). Both variants carry a
Timestamp. The JSON form matches what the result panel copies to the
clipboard:

	{"status": 200, "data": {"message": "ok"}, "timestamp": "2025-01-01T10:00:00Z"}
	{"error": "HTTP 500: boom", "timestamp": "2025-01-01T10:00:00Z"}

Kind is not serialized; callers branch on IsError and only use Kind for
logging and tests.
*/
package types
