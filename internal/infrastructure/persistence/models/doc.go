// Package models contains GORM-specific persistence models that map to the store tables
// the feed reads from. They are kept apart from the domain entities so the domain layer
// stays free of ORM concerns; each model converts itself with ToDomain.
package models
