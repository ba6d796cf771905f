// Package commands holds one file per bot command. Each file defines an
// Init<Name> function that registers the command; units_gen.go lists them.
// Run go generate after adding or renaming a file.
package commands

//go:generate go run ../../cmd/handlergen --dir . --out units_gen.go --pkg commands
