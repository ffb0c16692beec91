package main

import (
	"go.uber.org/zap"

	"github.com/mev-research/pbs-sim/config"
	"github.com/mev-research/pbs-sim/pbs"
)

// buildGraph allocates and neighbour-assigns a graph matching the node
// counts and parameters in r, assigning ids sequentially across each
// group in the order: builders, attacker builders, proposers, proposer
// builders, proposer-attacker builders, plain nodes.
func buildGraph(r *config.Recipe, rng pbs.Source, log *zap.Logger) *pbs.Graph {
	g := pbs.NewGraph(rng, log)
	nextID := int64(1)

	for i := 0; i < r.Builders.Count; i++ {
		g.AddBuilder(nextID, r.Builders.Connections, r.Builders.Characteristic, r.Builders.Depth, r.Builders.NumSimulations)
		nextID++
	}
	for i := 0; i < r.AttackerBuilders.Count; i++ {
		g.AddAttackerBuilder(nextID, r.AttackerBuilders.Connections, r.AttackerBuilders.Characteristic, r.AttackerBuilders.Depth, r.AttackerBuilders.NumSimulations)
		nextID++
	}
	for i := 0; i < r.Proposers.Count; i++ {
		g.AddProposer(nextID, r.Proposers.Connections, r.Proposers.Characteristic)
		nextID++
	}
	for i := 0; i < r.ProposerBuilders.Count; i++ {
		g.AddProposerBuilder(nextID, r.ProposerBuilders.Connections, r.ProposerBuilders.Characteristic, r.ProposerBuilders.Depth, r.ProposerBuilders.NumSimulations)
		nextID++
	}
	for i := 0; i < r.ProposerAttackerBuilders.Count; i++ {
		g.AddProposerAttackerBuilder(nextID, r.ProposerAttackerBuilders.Connections, r.ProposerAttackerBuilders.Characteristic, r.ProposerAttackerBuilders.Depth, r.ProposerAttackerBuilders.NumSimulations)
		nextID++
	}
	for i := 0; i < r.PlainNodes.Count; i++ {
		g.AddNode(nextID, r.PlainNodes.Connections, r.PlainNodes.Characteristic)
		nextID++
	}

	g.AssignNeighbours()
	return g
}
