// Package template generates skeleton test definitions.
//
// Render fills a YAML skeleton annotated with what each field means; the
// output loads as a regular definition once the required fields are set.
// Prompt collects the fields interactively on a terminal.
package template
