/*
Package router routes requests for the recipes API to their handlers.

A Router wraps gorilla/mux, applying a stack of middleware.Adapter to every
registered Route and answering unmatched paths and methods with terse JSON
bodies instead of mux's plain-text defaults.
*/
package router
