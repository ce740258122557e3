// Package report ranks the results of a disk usage scan and derives
// optimization tips from them.
package report
