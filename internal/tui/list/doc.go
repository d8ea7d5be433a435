// Package listview provides a windowed list for Bubble Tea models.
//
// Only the rows around the cursor are rendered, with the window centered on
// the selection when possible. Navigation covers arrows, page keys,
// home/end and j/k.
package listview
