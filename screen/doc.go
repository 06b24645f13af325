/*
Package screen models the 3270 display buffer.

A Buffer is a fixed grid of cells addressed linearly, row-major, with a
cursor and the current attention identifier. Host datastreams mutate it
through Apply; local input (typing, tabbing, erasing) mutates it through
the input methods, which honour field protection and set the modified
data tag. ReadModified and ReadBuffer produce the inbound datastream a
terminal sends to the host.

A Buffer is not safe for concurrent use. Hosts sharing one between a
session loop and a display must synchronise access themselves.
*/
package screen
