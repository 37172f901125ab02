// Package api contains the HTTP handlers, request/response models, and
// error mapping for the REST surface. Handlers decode and validate input,
// call into the service layer, and translate service errors into safe
// HTTP responses; all domain logic lives below this package.
package api
