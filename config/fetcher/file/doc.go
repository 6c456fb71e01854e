// Package file provides a file-based DataFetcher implementation for the config package.
//
// The configuration file is read once at construction time and cached, so a
// load sees one consistent snapshot even if the file changes afterwards. The
// fetcher also reports the file's directory, which the loader uses to resolve
// the %(here)s placeholder.
//
// Usage:
//
//	fetcher, err := file.NewFetcher("/etc/app/prod.yaml")()
//	if err != nil {
//	    // file not found, permission denied, path is a directory
//	}
//	data, err := fetcher.Fetch()
//	dir := fetcher.Dir() // "/etc/app"
//
// Use errors.Is(err, file.ErrPathIsDirectory) to detect a directory path.
package file
