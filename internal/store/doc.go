// Package store defines the persistence interfaces consumed by the AI
// response acquisition layer: the durable user usage/limit record and the
// durable tier of the response cache. Concrete implementations live under
// internal/platform.
package store
