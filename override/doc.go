// Package override discovers configuration overrides outside the
// configuration file.
//
// Both sources derive the set of overridable keys from the dotted leaf paths
// of a configuration schema and return a sparse tree holding raw string
// values only for the paths that were actually set. Type conversion happens
// later, when the merged tree is decoded into the configuration type.
//
// Environment variables match a path case-insensitively:
//
//	CHILDNODE.TESTINT=22    overrides childNode.testInt
//
// Command-line options use the "++" prefix so they never collide with the
// program's own flags or with negative numbers:
//
//	my-program --verbose ++childNode.testInt 22 ++rootValue=-5
//
// Arguments are merged after environment variables and therefore win.
package override
