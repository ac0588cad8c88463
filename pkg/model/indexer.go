package model

// Indexer gives a unique dense index to a (period, day) pair of the grid and vice versa
type Indexer interface {
	// Returns a unique index in [0, periods*days) for the period and day
	Index(period, day int) int
	// Returns the period and day from a unique index
	Attributes(index int) (period int, day int)
}

func NewIndexer(periods, days int) Indexer {
	return &indexerImplementation{
		periods: periods,
		days:    days,
	}
}

type indexerImplementation struct {
	periods int
	days    int
}

func (indexer *indexerImplementation) Index(period, day int) int {
	return period + indexer.periods*day
}

func (indexer *indexerImplementation) Attributes(index int) (period, day int) {
	period = index % indexer.periods
	day = index / indexer.periods
	return period, day
}

// SlotOf converts a dense index into a time slot
func SlotOf(indexer Indexer, index int) TimeSlot {
	period, day := indexer.Attributes(index)
	return TimeSlot{Day: day, Period: period}
}
