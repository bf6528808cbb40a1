// Package boot drives a bootloader console from power-on to a jump into the
// loaded image.
//
// The Sequencer is a small state machine:
//
//	AwaitingPrompt --ReadyPrompt--> Sequencing --> Done
//	      |                              |
//	      +---- budget / I/O error ------+--> Failed
//
// While awaiting the prompt it keeps writing a nudge and reading one line back,
// because consoles drop keystrokes typed while the boot banner is printing.
// Every read, empty or not, spends one attempt of a bounded budget. Once the
// prompt is seen (and, unless disabled, seen a second time) the load and jump
// commands are written back to back without waiting for acknowledgement.
package boot
