// Package server exposes canvas histories over websockets.
//
// Each connection owns one history. Clients send JSON text frames:
//
//	{"op":"paint","x":1,"y":2,"color":[255,0,0]}
//	{"op":"undo"}
//	{"op":"redo"}
//	{"op":"clear"}                          // current size
//	{"op":"clear","width":16,"height":16}   // new size
//	{"op":"get"}
//	{"op":"history"}
//
// Canvas state is answered with a binary frame: a 4-byte big-endian width,
// a 4-byte big-endian height, then the canvas bytes in row-major RGB order.
// The history op is answered with a JSON text frame. Errors are answered with
// {"error":"..."} text frames and leave the history unchanged.
package server
