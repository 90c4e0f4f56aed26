package entities_test

import (
	"testing"

	"ballot/contexts/governance/election-service/domain/entities"

	"github.com/stretchr/testify/require"
)

func proposalsWithCounts(counts ...int) []entities.Proposal {
	items := make([]entities.Proposal, 0, len(counts))
	for index, count := range counts {
		items = append(items, entities.Proposal{ProposalID: index, VoteCount: count})
	}
	return items
}

func TestPluralityWinner(t *testing.T) {
	cases := []struct {
		name   string
		counts []int
		want   int
	}{
		{name: "empty registry", counts: nil, want: 0},
		{name: "no votes", counts: []int{0, 0, 0}, want: 0},
		{name: "single leader", counts: []int{0, 1, 3, 2}, want: 2},
		{name: "tie goes to lowest index", counts: []int{0, 2, 2}, want: 1},
		{name: "late tie does not replace", counts: []int{0, 4, 1, 4, 4}, want: 1},
		{name: "genesis can win", counts: []int{2, 1, 1}, want: 0},
		{name: "genesis ties with proposal", counts: []int{1, 1}, want: 0},
		{name: "last index strictly greater", counts: []int{0, 1, 1, 2}, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, entities.PluralityWinner(proposalsWithCounts(tc.counts...)))
		})
	}
}

func TestPluralityWinnerIsLowestMaxIndex(t *testing.T) {
	counts := []int{3, 7, 1, 7, 0, 7, 2}
	want := -1
	highest := -1
	for index, count := range counts {
		if count > highest {
			highest = count
			want = index
		}
	}
	require.Equal(t, want, entities.PluralityWinner(proposalsWithCounts(counts...)))
	require.Equal(t, 1, want)
}
