/*
Package middleware defines what a middleware is in the recipes service and
the set of middlewares its API server uses.

The available middlewares are:
  - CORS
  - CurrentUser
  - InjectIPAddress
  - LogRequest
  - ReportPanic
  - RequestID
  - RequireAuthed
  - AuthorizeApplicator.Apply

Due to the amount of configuration required, middleware does not provide a
default middleware chain; server.New composes one from these parts.
*/
package middleware
