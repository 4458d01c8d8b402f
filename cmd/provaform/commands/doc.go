// Package commands defines the provaform CLI, a terminal host for the exam
// registration dialog (internal/examform) backed by the SGP HTTP API.
//
// Commands
//
//   - login       Exchange admin credentials for a token
//   - questions   Browse the question drop-down
//   - create      Register a new exam with selected questions
//   - edit        Change an existing exam
//   - view        Show an exam read-only
//   - export      Download an exam as xlsx
//   - watch       Follow exam created/updated events
//
// Alerts and the loading indicator are rendered as log lines on stderr;
// command results go to stdout.
package commands
