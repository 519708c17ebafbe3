// Package wire drives a browser-side drawing engine over a message channel.
//
// The server never lays out or paints anything itself. Every
// ports.DrawingEngine call becomes an Instruction the page applies to its
// canvas, and the page answers with ClientMessages (size changes, render
// completion, pointer events, clicks, controls) that decode into
// coordinator commands.
package wire
