package entities

// PluralityWinner scans proposals in index order and keeps the first one with
// the highest vote count. A later proposal replaces the leader only with a
// strictly greater count, so ties go to the lowest index and an election with
// no votes resolves to index 0.
func PluralityWinner(proposals []Proposal) int {
	winner := 0
	highest := 0
	for index, proposal := range proposals {
		if proposal.VoteCount > highest {
			highest = proposal.VoteCount
			winner = index
		}
	}
	return winner
}
