// Package mesh samples a surface function on a regular (u, v) grid and
// turns the samples into an indexed triangle mesh.
//
// Vertices are laid out row by row: v selects the row, u the column, so
// vertex (i, j) lives at index i*(segU+1)+j. Each grid cell contributes two
// triangles, (a, b, d) and (b, c, d), where a is the cell's lower-left
// corner and the corners run counter-clockwise.
//
// # Buffers
//
// Geometry buffers are recycled through a [Pool]. Callers that replace a
// mesh every frame should [Pool.Release] the old geometry once it is no
// longer referenced; [Pool.Stats] exposes the build and release counters.
package mesh
