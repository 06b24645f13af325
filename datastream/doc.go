/*
Package datastream encodes and decodes the 3270 datastream.

A host datastream starts with exactly one Command. Write commands are
followed by a Write Control Character and a sequence of Orders; the
Write Structured Field command is followed by structured fields; read
commands carry nothing further. A terminal datastream starts with an
Attention Identifier (AID) and, unless the AID is a short-read AID, the
cursor address and the modified fields.

Orders are a closed catalog keyed by opcode: each Order type knows its
opcode and operand length, so decoding is a single dispatch and an
opcode outside the catalog is reported as an error rather than
skipped.

Buffer addresses use the 12-bit form for geometries of up to 4095
positions and the 14-bit form otherwise. Decoding accepts either form.
*/
package datastream
