// Package public carries the files served to clients that Go code needs too.
package public

import _ "embed"

// OpenAPI is the v1 API document.
//
//go:embed docs/v1/openapi.yml
var OpenAPI []byte
