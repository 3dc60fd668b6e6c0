// Package server hosts the HTTP API: uploading audio artifacts, requesting
// genre transformations, downloading originals and renditions, and
// inspecting the transformation ledger.
package server
