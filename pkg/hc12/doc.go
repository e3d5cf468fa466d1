// Package hc12 encodes and validates configuration for HC-12 433 MHz serial
// radio transceivers.
//
// The module is configured over its UART with CRLF-terminated ASCII AT
// commands while its SET pin is held low. This package owns the typed,
// validated parameter values (baud rate, channel, transmission power,
// operating mode), the mode-dependent rules that tie them together, and the
// byte-exact rendering of set commands and queries into caller-supplied
// fixed-size buffers. It performs no I/O; see package driver for the
// transport-facing state machine.
//
// Operating modes are modelled twice: Mode is the runtime numeral sent with
// AT+FUx, while Fu1..Fu4 are zero-size tags that select the baud-rate rules of
// a Parameters set at compile time.
package hc12
