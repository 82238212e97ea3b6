// Package sanitizer cleans user input and derives plain text from HTML.
//
// Field is applied to every value typed into the signature form before it is
// stored. PlainText produces the text/plain clipboard representation of a
// composed signature.
package sanitizer
