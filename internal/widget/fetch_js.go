//go:build js && wasm

package widget

import "net/http"

// setFetchOptions asks the wasm fetch transport for a credential-less CORS
// request. The transport strips these pseudo-headers before sending.
func setFetchOptions(h http.Header) {
	h.Set("js.fetch:mode", "cors")
	h.Set("js.fetch:credentials", "omit")
}
