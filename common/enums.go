// Package common holds enums shared by configuration, diffing and layout code.
// They live separately so config does not have to import the engine.
package common

//go:generate go tool go-enum --marshal --names --values

// Geometry used to draw a decoration.
// ENUM(boxes, bounds)
type LayoutMode string

// Horizontal extent of decoration overlay elements.
// ENUM(wrap, viewport, bounds, page)
type WidthPolicy string

// Kind of atomic change between two decoration lists.
// ENUM(added, updated, moved, removed)
type ChangeKind int

