// Package checker keeps the external FHIR validator (validator_cli.jar) installed and current.
//
// Before a run the Manager reads the installed version from the jar, asks
// the release endpoint for the latest tag and, when the installed copy is
// older, downloads the new jar next to the old one and swaps it in with a
// rename. The result is an immutable Handle that the execution engine uses
// for the whole run.
package checker
