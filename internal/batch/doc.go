// Package batch provides a coalescing layer in front of the generation
// provider. Independently submitted requests arriving within a short window
// are accumulated and dispatched together, reducing provider round-trips
// while each request keeps its own result routing.
package batch
