// Package filter holds the user's include and exclude rule sets and
// resolves them against a library snapshot for the planner.
package filter
