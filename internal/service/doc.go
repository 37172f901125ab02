// Package service contains the application's business operations: the task
// mutation orchestrator coordinating store writes with cache invalidation,
// live-update fan-out and notification publication; uncached analytics
// aggregation; and user registration and authentication.
package service
