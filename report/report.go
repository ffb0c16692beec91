// Package report writes the three output CSVs described in spec.md §6:
// per-block, per-transaction, and a PBS-vs-POS comparison. No CSV
// library appears anywhere in the example corpus (see DESIGN.md), so
// these writers use the standard library's encoding/csv directly —
// the one ambient concern in this repository without a third-party
// grounding.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/mev-research/pbs-sim/pbs"
)

// WriteBlocks writes the per-block CSV: one row per finalised block,
// columns for the auction winner plus every builder's bid and block
// value from that round's snapshot. Reward is blockValue-bid unless the
// builder proposed its own block, in which case it's the full blockValue
// (the self-dealing clause pays itself in full).
func WriteBlocks(w io.Writer, blocks []*pbs.Block) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if len(blocks) == 0 {
		return cw.Write([]string{"Block Number", "Proposer ID", "Builder ID", "Winning Bid Value", "Winning Block Value", "Reward"})
	}

	builderIDs := sortedBuilderIDs(blocks[0].AllBids)
	header := []string{"Block Number", "Proposer ID", "Builder ID", "Winning Bid Value", "Winning Block Value", "Reward"}
	for _, id := range builderIDs {
		header = append(header, fmt.Sprintf("Builder ID %d Bid", id))
	}
	for _, id := range builderIDs {
		header = append(header, fmt.Sprintf("Builder ID %d Block Value", id))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, b := range blocks {
		reward := b.BlockValue - b.Bid
		if b.ProposerID == b.BuilderID {
			reward = b.BlockValue
		}
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(b.ProposerID, 10),
			strconv.FormatInt(b.BuilderID, 10),
			formatFloat(b.Bid),
			formatFloat(b.BlockValue),
			formatFloat(reward),
		}
		for _, id := range builderIDs {
			row = append(row, formatFloat(b.AllBids[id]))
		}
		for _, id := range builderIDs {
			row = append(row, formatFloat(b.AllBlockValues[id]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteTransactions writes the per-transaction CSV: one block-header row
// (block id, bid, builder id, block value) followed by one row per
// included transaction, its block columns left blank via leading commas.
func WriteTransactions(w io.Writer, blocks []*pbs.Block) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Block ID", "Block Bid", "Builder ID", "Block Value", "Transaction ID", "Transaction GAS", "Transaction MEV"}); err != nil {
		return err
	}

	for i, b := range blocks {
		header := []string{
			strconv.Itoa(i + 1),
			formatFloat(b.Bid),
			strconv.FormatInt(b.BuilderID, 10),
			formatFloat(b.BlockValue),
			"", "", "",
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, t := range b.Transactions {
			row := []string{"", "", "", "",
				strconv.FormatInt(t.ID, 10),
				formatFloat(t.Gas),
				formatFloat(t.MEV),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}

// WriteComparison writes the PBS-vs-POS comparison CSV: one header row
// per block pair with both chains' builder ids, bid, and block values,
// followed by padded side-by-side transaction listings — empty fields
// where one chain's block has fewer transactions than the other's.
func WriteComparison(w io.Writer, pbsBlocks, posBlocks []*pbs.Block) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{
		"Block Number", "PBS Builder ID", "POS Builder ID", "Proposer ID",
		"PBS Bid Value", "PBS Block Value", "POS Block Value",
		"PBS Transaction ID", "PBS Transaction GAS", "PBS Transaction MEV",
		"POS Transaction ID", "POS Transaction GAS", "POS Transaction MEV",
	}); err != nil {
		return err
	}

	n := len(pbsBlocks)
	if len(posBlocks) < n {
		n = len(posBlocks)
	}
	for i := 0; i < n; i++ {
		pbsBlock, posBlock := pbsBlocks[i], posBlocks[i]
		if err := cw.Write([]string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(pbsBlock.BuilderID, 10),
			strconv.FormatInt(posBlock.BuilderID, 10),
			strconv.FormatInt(pbsBlock.ProposerID, 10),
			formatFloat(pbsBlock.Bid),
			formatFloat(pbsBlock.BlockValue),
			formatFloat(posBlock.BlockValue),
			"", "", "", "", "", "",
		}); err != nil {
			return err
		}

		rows := len(pbsBlock.Transactions)
		if len(posBlock.Transactions) > rows {
			rows = len(posBlock.Transactions)
		}
		for j := 0; j < rows; j++ {
			row := []string{"", "", "", "", "", "", ""}
			if j < len(pbsBlock.Transactions) {
				t := pbsBlock.Transactions[j]
				row = append(row, strconv.FormatInt(t.ID, 10), formatFloat(t.Gas), formatFloat(t.MEV))
			} else {
				row = append(row, "", "", "")
			}
			if j < len(posBlock.Transactions) {
				t := posBlock.Transactions[j]
				row = append(row, strconv.FormatInt(t.ID, 10), formatFloat(t.Gas), formatFloat(t.MEV))
			} else {
				row = append(row, "", "", "")
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}

func sortedBuilderIDs(m map[int64]float64) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
