// Package main runs ubootsim, an emulated Phytium Pi U-Boot console served
// over TCP, for exercising phyboot without a board.
//
// Usage
//
//	ubootsim --listen 127.0.0.1:2323 --file kernel.img=8388608
//	phyboot tcp://127.0.0.1:2323 115200 build/kernel.img
//
// Every accepted connection is a fresh power-on: banner, a deaf window, the
// autoboot countdown and, if interrupted, the U-Boot prompt. See package sim
// for the commands the console understands.
//
// Behaviour
//
//   - All state is per connection and lost when it closes.
//   - The default listen address is 127.0.0.1:2323.
//   - Connections are logged with their remote address and outcome.
package main
