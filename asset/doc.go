// Package asset tracks the asset handles entities reference and drops those
// references when an entity is destroyed.
package asset
