// Package bridge relays a human's console lines to the device after boot.
//
// The bridge is half duplex: each human line is written to the transport,
// followed by exactly one bounded read whose result is shown to the human.
// Typing the exit directive forwards it and then ends the session.
package bridge
