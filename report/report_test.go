package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mev-research/pbs-sim/pbs"
)

func sampleBlock(builderID, proposerID int64, bid, value float64) *pbs.Block {
	b := pbs.NewBlock(builderID)
	b.ProposerID = proposerID
	b.Bid = bid
	b.BlockValue = value
	b.Transactions = append(b.Transactions, pbs.NewTransaction(1, 10, 0), pbs.NewTransaction(2, 20, 5))
	b.AllBids[builderID] = bid
	b.AllBlockValues[builderID] = value
	return b
}

func TestWriteBlocksRewardExcludesBidUnlessSelfDealing(t *testing.T) {
	external := sampleBlock(1, 2, 30, 50) // proposer != builder
	selfDeal := sampleBlock(3, 3, 50, 50) // proposer == builder

	var buf bytes.Buffer
	require.NoError(t, WriteBlocks(&buf, []*pbs.Block{external, selfDeal}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	// Reward column index 5.
	require.Equal(t, "20", records[1][5]) // 50 - 30
	require.Equal(t, "50", records[2][5]) // full block value
}

func TestWriteBlocksEmptyWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBlocks(&buf, nil))
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestWriteTransactionsOneHeaderRowPerBlockPlusRowPerTx(t *testing.T) {
	block := sampleBlock(1, 2, 30, 50)
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, []*pbs.Block{block}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	// header + 1 block-header row + 2 transaction rows
	require.Len(t, records, 4)
	require.Equal(t, "1", records[2][4]) // first transaction's id column
}

func TestWriteComparisonPadsMismatchedTransactionCounts(t *testing.T) {
	pbsBlock := sampleBlock(1, 3, 30, 50)
	posBlock := pbs.NewBlock(2)
	posBlock.ProposerID = 9
	posBlock.BlockValue = 10
	posBlock.Transactions = append(posBlock.Transactions, pbs.NewTransaction(99, 10, 0))

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, []*pbs.Block{pbsBlock}, []*pbs.Block{posBlock}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	// header + block-pair header + 2 transaction rows (pbs has 2, pos has 1)
	require.Len(t, records, 4)
	lastRow := records[3]
	// POS transaction columns (last 3) should be blank on the padded row.
	require.Equal(t, "", lastRow[len(lastRow)-3])
}
