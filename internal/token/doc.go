// Package token defines the lexical vocabulary of the .cap scenario language.
//
// Tokens carry their source span and the exact source text; leading trivia
// (whitespace, comments) is attached to the following significant token so
// tools like `tagcopy tokenize` can reproduce the input.
package token
