package model

// Achievement is the payload of a transient achievement banner.
// It is never persisted.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Glyph       string `json:"glyph"`
	Points      int    `json:"points"`
}
