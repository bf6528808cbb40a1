// Package transport implements the line-oriented link to a bootloader console.
//
// A LineTransport wraps any domain.Port (a serial device opened through
// go.bug.st/serial, or an in-memory fake in tests) and exposes verbatim writes
// plus bounded-timeout line reads. Bootloader prompts are not newline
// terminated, so a read whose timeout elapses with bytes pending returns those
// bytes as the line.
//
// Every I/O failure is reported wrapped in domain.ErrTransport. A timeout with
// nothing received is the normal polling case and is reported as ok == false.
package transport
