// Package diskusage computes per-directory disk usage aggregates.
//
// A Walker traverses a directory tree depth-first and produces, for every
// directory, its cumulative size, file count, largest contained file and a
// histogram of bytes per lowercase file extension. Aggregates of all
// subdirectories are collected into a Registry keyed by path.
//
// Filesystem access goes through a Source, backed either by afero (live or
// in-memory filesystems) or by a Snapshot taken in parallel with fastwalk.
package diskusage
