package pbs

// Attack scans every builder neighbour's mempool for MEV-bearing
// transactions and injects a front/back sandwich pair around each one it
// hasn't already targeted. A transaction qualifies once its MEV exceeds
// MEVThreshold times its gas. The attacker never touches a neighbour's
// mempool beyond the builder neighbours it's adjacent to, and it never
// revisits a neighbour outside this single call.
//
// TargetTransactions, FrontTransactions, and BackTransactions stay
// co-indexed: position i always describes one sandwich attempt.
func (g *Graph) Attack(attacker *Participant) {
	a := attacker.Attacker
	for _, j := range attacker.Adjacency {
		neighbour := g.Participants[j]
		if !neighbour.Kind.IsBuilder() {
			continue
		}
		for t := range neighbour.Mempool {
			if t.Gas <= 0 && t.MEV <= 0 {
				continue // never target a filler
			}
			if t.MEV <= a.MEVThreshold*t.Gas {
				continue
			}
			if a.seen.has(t) {
				continue
			}

			counter := a.attackCounter
			a.attackCounter++
			front := NewTransaction(attackerTransactionID(attacker.ID, counter, true), t.Gas+0.01, 0)
			back := NewTransaction(attackerTransactionID(attacker.ID, counter, false), t.Gas-0.01, 0)

			a.seen.add(t)
			a.TargetTransactions = append(a.TargetTransactions, t)
			a.FrontTransactions = append(a.FrontTransactions, front)
			a.BackTransactions = append(a.BackTransactions, back)

			neighbour.Mempool.Insert(front)
			neighbour.Mempool.Insert(back)
		}
	}
}

// ClearAttacks is end-of-slot hygiene: if any attacks are outstanding, it
// purges every front/back this attacker authored from every mempool in
// the graph and resets the three co-indexed sequences.
func (g *Graph) ClearAttacks(attacker *Participant) {
	a := attacker.Attacker
	if len(a.TargetTransactions) == 0 {
		return
	}
	for _, t := range a.FrontTransactions {
		g.ClearMempools(t)
	}
	for _, t := range a.BackTransactions {
		g.ClearMempools(t)
	}
	a.TargetTransactions = a.TargetTransactions[:0]
	a.FrontTransactions = a.FrontTransactions[:0]
	a.BackTransactions = a.BackTransactions[:0]
	a.seen.clear()
}

// RemoveFailedAttack inspects the block actually proposed this slot and
// scrubs chaff from attacks that did not pan out: if the victim target
// landed in the block (meaning front/victim/back were not adjacent, so
// the sandwich never executed), its front and back are purged from every
// mempool; likewise if only one side of a pair made it into the block
// without its partner, the unpublished side is purged. This keeps
// stale self-authored transactions from accumulating across slots.
func (g *Graph) RemoveFailedAttack(attacker *Participant, block *Block) {
	a := attacker.Attacker
	for i, target := range a.TargetTransactions {
		if target == nil {
			continue
		}
		if block.ContainsID(target.ID) {
			g.ClearMempools(a.FrontTransactions[i])
			g.ClearMempools(a.BackTransactions[i])
		}
	}
	for i := range a.FrontTransactions {
		front, back := a.FrontTransactions[i], a.BackTransactions[i]
		if block.ContainsID(front.ID) || block.ContainsID(back.ID) {
			g.ClearMempools(front)
			g.ClearMempools(back)
		}
	}
}
