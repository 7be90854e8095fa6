// Package util provides small helpers shared by the mocking and fixture packages:
// bounded truncation of bodies for logs and diagnostics, and path cleaning for
// file-backed response bodies.
package util
