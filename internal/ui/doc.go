// Package ui provides semantic text formatting for CLI output.
//
// Formatters render differently depending on terminal capabilities. With
// colour, content is colourised; when NO_COLOR is set or the terminal
// cannot show colour, text decorations are used instead.
//
//	ui.Code.Sprint("cipherboard account login") // Commands
//	ui.Highlight.Sprint("alice")                // Usernames, page titles
//	ui.Muted.Sprint(pageID)                     // Identifiers
//	ui.Undecryptable.Sprint(placeholder)        // Content that failed to decrypt
//
// Content picks between plaintext and the undecryptable style for a
// decrypted field, so a page with one corrupted post still renders.
package ui
