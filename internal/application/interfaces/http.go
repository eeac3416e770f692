package interfaces

import "net/http"

// HTTPHandler is the contract the transport layer exposes to the entrypoint.
type HTTPHandler interface {
	http.Handler
}
