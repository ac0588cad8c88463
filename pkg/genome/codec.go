package genome

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/samber/lo"
)

var ErrMalformedChromosome = errors.New("malformed chromosome")

// Gene holds indices into its locus' domains
type Gene struct {
	Slot    int `json:"slot"`
	Room    int `json:"room"`
	Faculty int `json:"faculty"`
}

// Chromosome holds one gene per session, in session id order
type Chromosome []Gene

func (chromosome Chromosome) Clone() Chromosome {
	return slices.Clone(chromosome)
}

// Locus is the set of admissible values for one session's gene
type Locus struct {
	Session model.Session
	Slots   []model.TimeSlot // Start slots whose block ends within the day
	Rooms   []int            // Rooms (position in the input) offering the session's capability and capacity
	Faculty []int            // Faculty (position in the input) qualified for the session's course
}

type Codec struct {
	input model.Input
	loci  []Locus
}

func NewCodec(input model.Input) (*Codec, error) {
	sessions, err := input.Sessions()
	if err != nil {
		return nil, err
	}

	loci := make([]Locus, 0, len(sessions))
	for _, session := range sessions {
		locus := Locus{
			Session: session,
			Slots:   make([]model.TimeSlot, 0),
			Rooms:   make([]int, 0),
			Faculty: make([]int, 0),
		}

		for day := range input.Grid.Days {
			for period := 0; period+session.Duration <= input.Grid.Periods; period++ {
				locus.Slots = append(locus.Slots, model.TimeSlot{Day: day, Period: period})
			}
		}
		for room, candidate := range input.Rooms {
			if candidate.Suits(session) {
				locus.Rooms = append(locus.Rooms, room)
			}
		}
		for faculty, candidate := range input.Faculty {
			if candidate.Qualified(session.Course) {
				locus.Faculty = append(locus.Faculty, faculty)
			}
		}

		var reason string
		switch {
		case len(locus.Slots) == 0:
			reason = fmt.Sprintf("block of %d periods does not fit in a %d-period day", session.Duration, input.Grid.Periods)
		case len(locus.Rooms) == 0:
			reason = fmt.Sprintf("no \"%v\" room seats %d students", session.RoomType, session.Students)
		case len(locus.Faculty) == 0:
			reason = "no qualified faculty"
		}
		if reason != "" {
			return nil, &model.InvalidInputError{Record: "course", Id: session.Course, Reason: reason}
		}

		loci = append(loci, locus)
	}

	return &Codec{
		input: input,
		loci:  loci,
	}, nil
}

func (codec *Codec) Len() int {
	return len(codec.loci)
}

func (codec *Codec) Loci() []Locus {
	return codec.loci
}

func (codec *Codec) Input() model.Input {
	return codec.input
}

func (codec *Codec) Decode(chromosome Chromosome) (model.Timetable, error) {
	if !codec.Valid(chromosome) {
		return nil, fmt.Errorf("%w: %d genes for %d sessions or gene out of domain", ErrMalformedChromosome, len(chromosome), len(codec.loci))
	}

	timetable := make(model.Timetable, len(chromosome))
	for i, gene := range chromosome {
		locus := codec.loci[i]
		timetable[i] = model.Assignment{
			Session:  locus.Session.Id,
			Course:   locus.Session.Course,
			Kind:     locus.Session.Kind,
			Duration: locus.Session.Duration,
			Slot:     locus.Slots[gene.Slot],
			Room:     codec.input.Rooms[locus.Rooms[gene.Room]].Id,
			Faculty:  codec.input.Faculty[locus.Faculty[gene.Faculty]].Id,
		}
	}
	return timetable, nil
}

func (codec *Codec) Encode(timetable model.Timetable) (Chromosome, error) {
	if len(timetable) != len(codec.loci) {
		return nil, fmt.Errorf("%w: %d assignments for %d sessions", ErrMalformedChromosome, len(timetable), len(codec.loci))
	}

	chromosome := make(Chromosome, len(timetable))
	for i, assignment := range timetable.Canonical() {
		if assignment.Session != i {
			return nil, fmt.Errorf("%w: session %d is not assigned exactly once", ErrMalformedChromosome, i)
		}
		locus := codec.loci[i]

		slot := slices.Index(locus.Slots, assignment.Slot)
		room := slices.IndexFunc(locus.Rooms, func(room int) bool { return codec.input.Rooms[room].Id == assignment.Room })
		faculty := slices.IndexFunc(locus.Faculty, func(faculty int) bool { return codec.input.Faculty[faculty].Id == assignment.Faculty })
		if slot < 0 || room < 0 || faculty < 0 {
			return nil, fmt.Errorf("%w: assignment of session %d lies outside its domains", ErrMalformedChromosome, i)
		}

		chromosome[i] = Gene{Slot: slot, Room: room, Faculty: faculty}
	}
	return chromosome, nil
}

// Valid reports whether the chromosome has one in-domain gene per session
func (codec *Codec) Valid(chromosome Chromosome) bool {
	if len(chromosome) != len(codec.loci) {
		return false
	}
	for i, gene := range chromosome {
		locus := codec.loci[i]
		if gene.Slot < 0 || gene.Slot >= len(locus.Slots) ||
			gene.Room < 0 || gene.Room >= len(locus.Rooms) ||
			gene.Faculty < 0 || gene.Faculty >= len(locus.Faculty) {
			return false
		}
	}
	return true
}

func (codec *Codec) RandomGene(r *rand.Rand, locus int) Gene {
	domains := codec.loci[locus]
	return Gene{
		Slot:    r.IntN(len(domains.Slots)),
		Room:    r.IntN(len(domains.Rooms)),
		Faculty: r.IntN(len(domains.Faculty)),
	}
}

func (codec *Codec) Random(r *rand.Rand) Chromosome {
	return lo.Times(len(codec.loci), func(locus int) Gene {
		return codec.RandomGene(r, locus)
	})
}
