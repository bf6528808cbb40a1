// Package app wires phyboot's components for the CLI.
//
// It owns the Session: the transport is opened once, handed to the Boot
// Sequencer and then the Interactive Bridge strictly one after the other, and
// closed exactly once on every exit path. Fatal errors are returned as
// *domain.SessionError carrying the device and the last state reached.
package app
