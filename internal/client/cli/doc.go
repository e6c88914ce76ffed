// Package cli provides the terminal front ends of the hiring client.
//
// CandidateApp asks for the candidate's identity and CV, runs the interview
// setup and then shows one question at a time with its countdown; typed
// lines form the answer and an empty line submits it.
//
// AdminApp is a REPL over the session list. It starts a background
// connectivity watcher and, while the backend is unreachable, shows the
// locally cached list. See runREPL for the command set.
package cli
