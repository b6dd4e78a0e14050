// Package recipe provides the value types of the cauldron engine: recipes
// (the versioned documents), ingredients, edit operations and modifications.
//
// This package is the foundational layer. All other internal packages import
// recipe; recipe imports nothing internal.
//
// Key design constraints:
//   - Every constructor (New, NewModification) generates a fresh identifier.
//     There is no static default id.
//   - Apply never mutates its input. It returns a deep copy.
//   - Content identity (Fingerprint) excludes the id, so two versions built
//     from the same edit sequence compare equal by content.
//   - All JSON tags use snake_case.
package recipe
