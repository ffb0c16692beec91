package pbs

// Transaction is an immutable value record: once constructed its fields
// are never written again. The same *Transaction pointer is shared
// across many mempools simultaneously — mempool membership is defined by
// that pointer's identity, not by a matching Gas/MEV/ID triple.
type Transaction struct {
	ID  int64
	Gas float64
	MEV float64
}

// NewTransaction allocates a user-authored transaction.
func NewTransaction(id int64, gas, mev float64) *Transaction {
	return &Transaction{ID: id, Gas: gas, MEV: mev}
}

// IsFiller reports whether t is a zero-value front/back filler inserted
// by AttackerBuilder's sandwich-maximizing strategy to pad the block
// around a placed MEV transaction.
func (t *Transaction) IsFiller() bool {
	return t.Gas == 0 && t.MEV == 0
}

// TransactionGenerator draws gas/MEV values for newly injected
// transactions, following the distribution in the original
// TransactionFactory: every transaction has a gas fee uniform in
// [0,100]; a transaction carries nonzero MEV, uniform in [0,100], with
// probability mevFraction, and zero MEV otherwise.
type TransactionGenerator struct {
	rng         Source
	nextID      int64
	mevFraction float64
}

// NewTransactionGenerator builds a generator whose ids start at
// startID and increase monotonically.
func NewTransactionGenerator(rng Source, startID int64, mevFraction float64) *TransactionGenerator {
	return &TransactionGenerator{rng: rng, nextID: startID, mevFraction: mevFraction}
}

// Next draws and allocates one fresh transaction.
func (g *TransactionGenerator) Next() *Transaction {
	gas := g.rng.Float64() * 100
	mev := 0.0
	if g.rng.Float64() < g.mevFraction {
		mev = g.rng.Float64() * 100
	}
	id := g.nextID
	g.nextID++
	return NewTransaction(id, gas, mev)
}

// NextBatch draws n fresh transactions.
func (g *TransactionGenerator) NextBatch(n int) []*Transaction {
	out := make([]*Transaction, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// attackerTransactionID implements the ±(attackerID*1000 + counter)
// scheme from the spec: positive ids mark a front-run, negative ids mark
// the paired back-run. counter is owned by the caller (Attacker or
// AttackerBuilder) so that front/back pairs sharing one counter value
// never collide with another pair from the same attacking identity.
func attackerTransactionID(attackerID int64, counter int64, isFront bool) int64 {
	base := attackerID*1000 + counter
	if isFront {
		return base
	}
	return -base
}
