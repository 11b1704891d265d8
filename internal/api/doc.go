// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting for the AI generation endpoints. It acts as an
// adapter between external clients and the response orchestration layer,
// translating HTTP concerns to business operations.
package api
