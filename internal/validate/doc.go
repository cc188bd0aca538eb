// Package validate statically inspects a generated artifact set for
// structural soundness: syntactic validity, lifecycle completeness, flow
// graph connectivity, schema consistency, and utility contract presence.
// The checks are independent read-only passes that always run to
// completion; fixing artifacts is out of scope since their bodies are
// intentionally incomplete placeholders.
package validate
