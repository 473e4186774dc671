// Package main provides the entry point for the LinkForge application.
// It initializes and runs a web server using the Fiber framework that lets
// a single page owner manage link-in-bio settings and content blocks through
// a REST API. Edits are staged as drafts and promoted to the public page by
// an explicit publish action, which also purges the public response cache.
// The application uses gorm for data persistence.
package main
