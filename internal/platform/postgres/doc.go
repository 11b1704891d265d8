// Package postgres provides PostgreSQL-backed implementations of the
// persistence interfaces: the durable user usage record and the durable
// tier of the AI response cache.
package postgres
