// Package rendezvous tracks worker membership for elastic collective
// training.
//
// As workers come and go, the tracker assigns each current host a rank
// and advances a round counter. Workers use the round to notice that the
// membership changed under them and rebuild their communication ring.
package rendezvous
