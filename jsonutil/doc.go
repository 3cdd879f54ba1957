// Package jsonutil wraps sonic so every wire write in kit shares one JSON
// configuration. See Example for the full round trip.
package jsonutil
