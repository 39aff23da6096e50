// Package celebration runs the terminal phase overlay: a [Launcher] that
// keeps fireworks rising and bursting, and a [Banner] of scrolling
// blessing tracks above and below the greeting.
package celebration
