// Package console renders session notifications as plain lines, for the
// one-shot commands and for `docchat chat` when stdin is not a terminal.
package console
