// Package control maps named remote-control addresses onto equalizer
// parameters.
//
// The 21 addresses are /freq1../freq5, /q1../q5, /boost1../boost5,
// /bypass1../bypass5 and /mul. Index 1 is the low shelf, 2 to 4 the peaking
// bands and 5 the high shelf.
package control
