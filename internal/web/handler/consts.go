// Package handler holds constants shared by the web handler packages.
package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// AdminAPIPrefix is the path prefix of the owner-authenticated JSON API.
	AdminAPIPrefix = "/admin/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app or cfg or db is nil"
)
