// Package project renders a chosen template into <outputRoot>/<name>.
//
// Render creates the output directory, asks the engine for the template's
// file list and writes each file in turn, creating parent directories on
// the way. There is no rollback: a failure part way through leaves the files
// that were already written.
package project
