// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Persistence models contain all GORM annotations and table mappings
// 2. Mappers convert between domain entities and persistence models
// 3. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - partner.go: Customer credit account model
// - catalog.go: Product model
// - credit.go: Credit transaction and line models
// - returns.go: Return case, line and reason models
package models
