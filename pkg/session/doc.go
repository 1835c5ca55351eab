/*
Package session serializes concurrent turns for a single identity.

The engine does not defend against concurrent mutation of one identity's
profile; the transport wraps every turn in Manager.WithLock so two turns
from the same endpoint never interleave. Different identities proceed in
parallel. An optional distributed locker extends the guarantee across
replicas.
*/
package session
