package scheduler

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/timetabling-ga/pkg/genome"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// GreedySeeds builds count chromosomes by placing the most constrained sessions first. Sessions that find
// no clash-free slot or room keep a random value, so seeds are valid but not necessarily feasible
func GreedySeeds(codec *genome.Codec, r *rand.Rand, count int) []genome.Chromosome {
	return lo.Times(count, func(_ int) genome.Chromosome {
		return greedySeed(codec, r)
	})
}

func greedySeed(codec *genome.Codec, r *rand.Rand) genome.Chromosome {
	input, loci := codec.Input(), codec.Loci()
	grid := input.Grid
	indexer := grid.Indexer()

	//** Order loci: longer blocks, then fewer qualified faculty, then fewer suitable rooms
	order := r.Perm(len(loci))
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(loci[b].Session.Duration, loci[a].Session.Duration),
			cmp.Compare(len(loci[a].Faculty), len(loci[b].Faculty)),
			cmp.Compare(len(loci[a].Rooms), len(loci[b].Rooms)),
		)
	})

	chromosome := make(genome.Chromosome, len(loci))
	facultyBusy := lo.Times(len(input.Faculty), func(_ int) []bool { return make([]bool, grid.Slots()) })
	facultyLoad := make([]int, len(input.Faculty))
	cohortBusy := make(map[string][]bool)
	placed := make([]bool, len(loci))
	predicates := model.NewPredicateEvaluator(input, lo.Map(loci, func(locus genome.Locus, _ int) model.Session { return locus.Session }))

	//** Place slot and faculty
	for _, i := range order {
		locus := loci[i]
		chromosome[i] = codec.RandomGene(r, i)
		if _, ok := cohortBusy[locus.Session.Cohort]; !ok {
			cohortBusy[locus.Session.Cohort] = make([]bool, grid.Slots())
		}
		cohort := cohortBusy[locus.Session.Cohort]

		block := func(slot model.TimeSlot) []int {
			return lo.Times(locus.Session.Duration, func(offset int) int { return indexer.Index(slot.Period+offset, slot.Day) })
		}

	search:
		for _, s := range r.Perm(len(locus.Slots)) {
			slot := locus.Slots[s]
			cells := block(slot)
			if lo.SomeBy(cells, func(cell int) bool { return cohort[cell] }) {
				continue
			}
			for _, f := range r.Perm(len(locus.Faculty)) {
				faculty := locus.Faculty[f]
				if maxLoad := input.Faculty[faculty].MaxLoad; maxLoad > 0 && facultyLoad[faculty]+len(cells) > maxLoad {
					continue
				}
				if !predicates.AvailableForBlock(faculty, locus.Session.Id, slot) || lo.SomeBy(cells, func(cell int) bool { return facultyBusy[faculty][cell] }) {
					continue
				}

				chromosome[i].Slot, chromosome[i].Faculty = s, f
				for _, cell := range cells {
					cohort[cell] = true
					facultyBusy[faculty][cell] = true
				}
				facultyLoad[faculty] += len(cells)
				placed[i] = true
				break search
			}
		}
	}

	//** Assign rooms period by period: sessions starting together share one matching
	roomBusy := lo.Times(len(input.Rooms), func(_ int) []bool { return make([]bool, grid.Slots()) })
	starting := lo.GroupBy(lo.Filter(lo.Range(len(loci)), func(i int, _ int) bool { return placed[i] }), func(i int) int {
		slot := loci[i].Slots[chromosome[i].Slot]
		return indexer.Index(slot.Period, slot.Day)
	})
	for day := range grid.Days {
		for period := range grid.Periods {
			sessions := starting[indexer.Index(period, day)]
			if len(sessions) == 0 {
				continue
			}
			for session, room := range assignRooms(sessions, loci, roomBusy, indexer, model.TimeSlot{Day: day, Period: period}) {
				chromosome[session].Room = slices.Index(loci[session].Rooms, room)
				for offset := range loci[session].Session.Duration {
					roomBusy[room][indexer.Index(period+offset, day)] = true
				}
			}
		}
	}

	return chromosome
}

// Matches sessions starting at slot to rooms that suit them and are free for their whole block.
// Unmatched sessions are left out of the result
func assignRooms(sessions []int, loci []genome.Locus, roomBusy [][]bool, indexer model.Indexer, slot model.TimeSlot) map[int]int {
	rooms := lo.Range(len(roomBusy))

	// Build neighbors predicate based on suitability and occupancy
	neighbors := func(sessionAny any, roomAny any) (bool, error) {
		session, room := sessionAny.(int), roomAny.(int)
		if !slices.Contains(loci[session].Rooms, room) {
			return false, nil
		}
		for offset := range loci[session].Session.Duration {
			if roomBusy[room][indexer.Index(slot.Period+offset, slot.Day)] {
				return false, nil
			}
		}
		return true, nil
	}

	// Transform sessions and rooms to slices of any
	sessionsAny, roomsAny := lo.Map(sessions, func(session int, _ int) any { return session }), lo.Map(rooms, func(room int, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(sessionsAny, roomsAny, neighbors)
	if err != nil {
		return nil
	}

	assignments := make(map[int]int)
	for _, edge := range graph.LargestMatching() {
		assignments[sessions[edge.Node1]] = rooms[edge.Node2-len(sessions)]
	}
	return assignments
}
