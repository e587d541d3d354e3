// Package hcodec reads and writes trees and proofs as JSON records,
// optionally wrapped in the snappy framing format.
//
// Digests are encoded as lowercase hex strings
// and leaf data as standard base64, so arbitrary bytes survive a round trip.
package hcodec
