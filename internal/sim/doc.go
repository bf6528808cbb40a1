// Package sim emulates a Phytium Pi U-Boot console for development without a
// board.
//
// The emulated console prints a boot banner, ignores keystrokes for a short
// window while the banner prints (the behaviour that makes single blind
// keystrokes unreliable on real hardware), then counts down to autoboot. A
// key during the countdown drops to the prompt; otherwise the console
// "boots" and stops answering.
//
// At the prompt it understands a small command set:
//
//	usb start                      enumerate the fake USB medium
//	fatls usb 0                    list its files
//	fatload usb 0 <addr> <name>    "load" a file
//	go <addr>                      start the loaded image (needs a prior fatload)
//	version, help
//
// Commands may be chained with ';'. After go, the console answers as the
// started image with its own prompt until the connection closes.
package sim
