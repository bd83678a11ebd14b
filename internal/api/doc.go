// Package api is the client for the host application's REST API. It lists
// tags, courses and assets and issues the tag mutations (rename, transfer,
// delete) used by the Tags view. Records are kept as raw attribute maps so
// fields the host adds later survive a round trip to the JSON output.
package api
