// Package clipboard is a single-slot register for copied or cut text.
package clipboard

import "strings"

// Clipboard holds the text captured by the most recent copy or cut. An empty
// string and "nothing captured yet" are the same state.
type Clipboard struct {
	text string
}

// New returns an empty clipboard.
func New() *Clipboard {
	return &Clipboard{}
}

// Set replaces the register contents.
func (c *Clipboard) Set(text string) {
	c.text = text
}

// Text returns the register contents.
func (c *Clipboard) Text() string {
	return c.text
}

// Segments splits the contents on line breaks for block insertion. Interior
// empty lines survive as empty segments.
func (c *Clipboard) Segments() []string {
	return strings.Split(c.text, "\n")
}

// Empty reports whether the register holds nothing.
func (c *Clipboard) Empty() bool {
	return c.text == ""
}

// Clear drops the register contents.
func (c *Clipboard) Clear() {
	c.text = ""
}
