// Package commands defines the phyboot CLI.
//
// Commands
//
//   - phyboot <device> <baud> <file>   Wait for the U-Boot prompt, load <file> from
//     USB, jump to it and attach the console
//   - console <device> <baud>          Attach the console without booting
//   - probe <device> <baud>            Send one newline and print the reply
//   - ports                            List serial ports
//   - fingerprint <file>               Print an image's size and BLAKE2b fingerprint
//
// # Implementation
//
// Flags can be overridden by PHYBOOT_* environment variables (PHYBOOT_READ_TIMEOUT,
// PHYBOOT_MAX_ATTEMPTS, ...). The root command resolves them into an app.Config
// and a logger before any subcommand runs; the internal packages never read the
// environment themselves.
//
// Exit status is 0 on success, 1 on usage errors or an unavailable device, 2 on
// a transport failure, 3 when the prompt never appeared and 130 when
// interrupted.
package commands
