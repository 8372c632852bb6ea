package httpclient

import "net/http"

// Common Content-Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeText = "text/plain"
)

// HTTP methods, re-exported so call sites need only this package.
const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodPatch  = http.MethodPatch
	MethodDelete = http.MethodDelete
)

// Header names used throughout the client.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)
