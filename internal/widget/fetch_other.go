//go:build !(js && wasm)

package widget

import "net/http"

func setFetchOptions(http.Header) {}
