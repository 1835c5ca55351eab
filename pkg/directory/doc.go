/*
Package directory talks to the external directory/registration service.

It provides two implementations of ports.Directory behind one interface:
Client, the real HTTP client, and Dummy, an in-memory stub used when no
service credentials are configured. Selection is a capability substitution
made once at wiring time, not inheritance.

All display text returned by list operations is sanitized to printable
ASCII, and facility lists are deduplicated by title before they reach the
caller.
*/
package directory
