// Package source keeps the snapshot store in sync with the graph file on disk.
//
// Refresher.Refresh reads the file, checks it is a JSON object and replaces
// the held snapshot. A read or parse failure is logged and leaves the held
// snapshot untouched, so viewers keep receiving the last good graph. The
// returned error wraps ErrRead or ErrParse for callers that care; the
// scheduler ignores it.
//
// Watch(ctx, path, onChange) uses fsnotify on the file's directory and calls
// onChange whenever the file is written or (re)created. It watches the
// directory rather than the file so atomic rename-into-place writes are seen.
package source
