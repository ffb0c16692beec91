package pbs

// BuildBlockSandwich runs the sandwich-maximizing assembly strategy used
// by AttackerBuilder/ProposerAttackerBuilder participants. It walks two
// cursors over the mempool — gas-descending (G) and MEV-descending (M) —
// and at each step either takes the next gas transaction or brackets the
// next MEV transaction with a self-authored front/back filler pair,
// whichever yields more block value, until the block is full or both
// cursors are exhausted.
//
// Each MEV transaction placed through the M cursor ends up with a
// self-authored front at position p-1 and a self-authored back at
// position p+1: that adjacency invariant is what lets the block later be
// scored as a successful sandwich. An MEV-bearing transaction taken
// through the G cursor is placed without fillers unless the M cursor
// later reaches it and brackets it.
func (g *Graph) BuildBlockSandwich(p *Participant, maxBlockSize int) {
	mempool := p.Mempool.Slice()
	gasSorted := sortedByGasDesc(append([]*Transaction{}, mempool...))
	mevSorted := sortedByMEVDesc(mempool)

	block := NewBlock(p.ID)
	gi, mi := 0, 0

	placedAt := func(t *Transaction) int { return block.IndexOf(t) }

	for len(block.Transactions) < maxBlockSize {
		gasExhausted := gi >= len(gasSorted)
		mevExhausted := mi >= len(mevSorted)
		if gasExhausted && mevExhausted {
			break
		}

		switch {
		case gasExhausted:
			g.placeSandwich(p, block, mevSorted[mi])
			mi++

		case mevExhausted:
			g.takeGas(block, gasSorted[gi])
			gi++

		default:
			compGas := threeStepGas(gasSorted, gi)
			m := mevSorted[mi]
			if compGas < m.MEV+m.Gas {
				pos := placedAt(m)
				switch {
				case pos < 0 && len(block.Transactions)+3 <= maxBlockSize:
					g.placeSandwich(p, block, m)
					mi++
				case pos >= 0 && len(block.Transactions)+2 <= maxBlockSize:
					g.insertBracket(p, block, pos, m)
					mi++
				default:
					g.takeGas(block, gasSorted[gi])
					gi++
					mi = len(mevSorted) // mirrors the original: abandon the MEV cursor
				}
			} else {
				g.takeGas(block, gasSorted[gi])
				gi++
			}
		}
	}

	p.Builder.BlockValue = block.BlockValue
	p.Builder.CurrBlock = block
	p.Builder.LastMempool = p.Mempool.Clone()
}

// threeStepGas sums the gas of up to three consecutive gas-sorted
// transactions starting at i, truncating at the mempool end.
func threeStepGas(gasSorted []*Transaction, i int) float64 {
	total := 0.0
	for j := 0; j < 3 && i+j < len(gasSorted); j++ {
		total += gasSorted[i+j].Gas
	}
	return total
}

func (g *Graph) takeGas(block *Block, t *Transaction) {
	if block.Contains(t) {
		return
	}
	block.Transactions = append(block.Transactions, t)
	block.BlockValue += t.Gas
}

// placeSandwich appends a fresh front filler, the MEV transaction, and a
// fresh back filler, and credits both its gas and MEV to block value.
func (g *Graph) placeSandwich(p *Participant, block *Block, m *Transaction) {
	front, back := g.fillerPair(p)
	block.Transactions = append(block.Transactions, front, m, back)
	block.BlockValue += m.Gas + m.MEV
}

// insertBracket adds a front/back filler pair bracketing an
// already-placed MEV transaction at pos, crediting only its MEV (the gas
// was already credited when it was first placed by takeGas via the gas
// cursor). front lands at pos (pushing m to pos+1) and back lands right
// after m, preserving the front[p-1]/back[p+1] adjacency invariant.
func (g *Graph) insertBracket(p *Participant, block *Block, pos int, m *Transaction) {
	front, back := g.fillerPair(p)
	before := append([]*Transaction{}, block.Transactions[:pos]...)
	after := append([]*Transaction{}, block.Transactions[pos+1:]...)
	block.Transactions = append(before, front, m, back)
	block.Transactions = append(block.Transactions, after...)
	block.BlockValue += m.MEV
}

// fillerPair mints a fresh self-authored front/back filler pair, zero
// gas and zero MEV, drawing from the same attackCounter that Attack uses
// so fillers never share an id with each other or with the front/back
// pairs this identity injects.
func (g *Graph) fillerPair(p *Participant) (front, back *Transaction) {
	counter := p.Attacker.attackCounter
	p.Attacker.attackCounter++
	front = NewTransaction(attackerTransactionID(p.ID, counter, true), 0, 0)
	back = NewTransaction(attackerTransactionID(p.ID, counter, false), 0, 0)
	return front, back
}
