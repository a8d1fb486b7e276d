// Package render draws a graph as text with lipgloss: fixed-width node cards
// laid out in rows by canvas position, followed by an edge list.
package render
