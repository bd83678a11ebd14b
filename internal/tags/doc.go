// Package tags implements the Tags debug view: it fetches tags, courses and
// assets from the host, cross-references them into aggregated rows that flag
// unused tags, and runs the operator actions (rename, transfer, delete and
// bulk delete of unused tags) that mutate the host's tag store.
//
// The view holds no reference to any UI toolkit. Dialogs and notifications
// are injected through the Dialog and Notifier interfaces, so the same View
// drives both the terminal panel and the line-oriented commands.
package tags
