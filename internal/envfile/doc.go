// Package envfile parses flat KEY=value environment files into an ordered,
// format-preserving Document.
//
// Every physical line is kept with its original text and line terminator.
// Only assignment values can be changed, and only changed lines are
// re-rendered, so writing an unmodified Document reproduces the input byte
// for byte (including CRLF endings, a UTF-8 BOM, and a missing final
// newline).
//
// Values are not interpreted: the value of `KEY="a b" # note` is the literal
// text `"a b" # note`. Callers that need dotenv semantics apply them on top.
package envfile
