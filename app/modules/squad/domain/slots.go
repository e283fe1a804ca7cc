package squaddomain

import (
	"fmt"
	"strings"
)

// ZoneKind distinguishes the three kinds of squad slot.
type ZoneKind int

const (
	ZoneRequired ZoneKind = iota
	ZoneFlexible
	ZoneBench
)

// Zone is the tag carried by every slot. Category is set only for required zones.
type Zone struct {
	Kind     ZoneKind
	Category Category
}

func RequiredZone(c Category) Zone { return Zone{Kind: ZoneRequired, Category: c} }

var (
	FlexibleZone = Zone{Kind: ZoneFlexible}
	BenchZone    = Zone{Kind: ZoneBench}
)

// Starting reports whether slots in this zone count toward the squad total.
func (z Zone) Starting() bool { return z.Kind != ZoneBench }

// String is the persisted form: "required:batsman", "flexible" or "bench".
func (z Zone) String() string {
	switch z.Kind {
	case ZoneRequired:
		return "required:" + string(z.Category)
	case ZoneFlexible:
		return "flexible"
	case ZoneBench:
		return "bench"
	}
	return "unknown"
}

// ParseZone is the inverse of Zone.String.
func ParseZone(s string) (Zone, error) {
	switch s {
	case "flexible":
		return FlexibleZone, nil
	case "bench":
		return BenchZone, nil
	}
	if rest, ok := strings.CutPrefix(s, "required:"); ok {
		c, err := ParseCategory(rest)
		if err != nil {
			return Zone{}, fmt.Errorf("parse zone %q: %w", s, err)
		}
		return RequiredZone(c), nil
	}
	return Zone{}, fmt.Errorf("parse zone: unknown zone %q", s)
}

// SlotRange is a half-open range of positions [Start, End) sharing a zone.
type SlotRange struct {
	Zone  Zone
	Start int
	End   int
}

func (r SlotRange) Len() int { return r.End - r.Start }

func (r SlotRange) Contains(pos int) bool { return pos >= r.Start && pos < r.End }

// SlotRanges partitions a squad into required zones in category order, the
// flexible tail of the starting XI, and the bench.
type SlotRanges struct {
	Ranges    []SlotRange
	SquadSize int
	BenchSize int
}

// ComputeSlotRanges lays out the squad for a league. Invalid rules are
// rejected rather than producing overlapping ranges.
func ComputeSlotRanges(rules LeagueRules) (SlotRanges, error) {
	if err := rules.Validate(); err != nil {
		return SlotRanges{}, err
	}

	ranges := make([]SlotRange, 0, len(Categories)+2)
	pos := 0
	for _, c := range Categories {
		n := rules.Minimum(c)
		ranges = append(ranges, SlotRange{Zone: RequiredZone(c), Start: pos, End: pos + n})
		pos += n
	}
	ranges = append(ranges,
		SlotRange{Zone: FlexibleZone, Start: pos, End: rules.SquadSize},
		SlotRange{Zone: BenchZone, Start: rules.SquadSize, End: rules.TotalSlots()},
	)

	return SlotRanges{Ranges: ranges, SquadSize: rules.SquadSize, BenchSize: rules.BenchSize}, nil
}

// Classify returns the zone a position falls in. ok is false when pos is
// outside the squad.
func (sr SlotRanges) Classify(pos int) (Zone, bool) {
	for _, r := range sr.Ranges {
		if r.Contains(pos) {
			return r.Zone, true
		}
	}
	return Zone{}, false
}

// Range returns the range for zone, if the layout has one.
func (sr SlotRanges) Range(z Zone) (SlotRange, bool) {
	for _, r := range sr.Ranges {
		if r.Zone == z {
			return r, true
		}
	}
	return SlotRange{}, false
}

// Slot is one position of a squad. Occupant is nil when the slot is empty.
type Slot struct {
	Zone     Zone
	Occupant *PlayerSnapshot
}

func (s Slot) Empty() bool { return s.Occupant == nil }

// Squad is the ordered, fixed-length slot list of a squad. Slot zones are set
// when the squad is laid out and travel with it; they are never recomputed.
type Squad struct {
	Slots []Slot
}

// NewSquad returns an empty squad laid out according to ranges.
func NewSquad(ranges SlotRanges) Squad {
	slots := make([]Slot, ranges.SquadSize+ranges.BenchSize)
	for _, r := range ranges.Ranges {
		for i := r.Start; i < r.End; i++ {
			slots[i].Zone = r.Zone
		}
	}
	return Squad{Slots: slots}
}

// SquadFromSlots rebuilds a squad from persisted slots, checking that the
// layout is well formed and that no player appears twice.
func SquadFromSlots(slots []Slot) (Squad, error) {
	seen := make(map[string]int, len(slots))
	benchSeen := false
	for i, s := range slots {
		switch s.Zone.Kind {
		case ZoneBench:
			benchSeen = true
		case ZoneRequired:
			if !s.Zone.Category.Valid() {
				return Squad{}, fmt.Errorf("slot %d: %w", i, ErrInvalidCategory)
			}
			fallthrough
		default:
			if benchSeen {
				return Squad{}, fmt.Errorf("slot %d: starting slot after bench: %w", i, ErrInvalidLeagueConfig)
			}
		}
		if s.Occupant == nil {
			continue
		}
		if prev, ok := seen[s.Occupant.PlayerID]; ok {
			return Squad{}, fmt.Errorf("%w: %s at positions %d and %d", ErrDuplicatePlayer, s.Occupant.PlayerID, prev, i)
		}
		seen[s.Occupant.PlayerID] = i
	}
	return Squad{Slots: slots}.Clone(), nil
}

// Clone deep-copies the squad including occupant snapshots.
func (s Squad) Clone() Squad {
	out := Squad{Slots: make([]Slot, len(s.Slots))}
	for i, slot := range s.Slots {
		out.Slots[i].Zone = slot.Zone
		if slot.Occupant != nil {
			p := slot.Occupant.Clone()
			out.Slots[i].Occupant = &p
		}
	}
	return out
}

// Find returns the position of playerID.
func (s Squad) Find(playerID string) (int, bool) {
	for i, slot := range s.Slots {
		if slot.Occupant != nil && slot.Occupant.PlayerID == playerID {
			return i, true
		}
	}
	return -1, false
}

// StartingXI returns the occupants of starting slots in position order.
func (s Squad) StartingXI() []PlayerSnapshot {
	return s.occupants(func(z Zone) bool { return z.Starting() })
}

// Bench returns the occupants of bench slots in position order.
func (s Squad) Bench() []PlayerSnapshot {
	return s.occupants(func(z Zone) bool { return !z.Starting() })
}

// Players returns every occupant in position order.
func (s Squad) Players() []PlayerSnapshot {
	return s.occupants(func(Zone) bool { return true })
}

func (s Squad) occupants(keep func(Zone) bool) []PlayerSnapshot {
	var out []PlayerSnapshot
	for _, slot := range s.Slots {
		if slot.Occupant != nil && keep(slot.Zone) {
			out = append(out, *slot.Occupant)
		}
	}
	return out
}

// IsStarting reports whether playerID occupies a starting slot.
func (s Squad) IsStarting(playerID string) bool {
	pos, ok := s.Find(playerID)
	return ok && s.Slots[pos].Zone.Starting()
}

// BestInsertionPosition picks where a player of category c enters the squad:
// the first empty required(c) slot, then the first empty flexible slot, then
// the first empty bench slot.
func BestInsertionPosition(s Squad, c Category) (int, error) {
	for _, want := range []Zone{RequiredZone(c), FlexibleZone, BenchZone} {
		for i, slot := range s.Slots {
			if slot.Zone == want && slot.Empty() {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: category %s", ErrNoInsertionSlot, c)
}

// RebalanceAfterRemoval refills a vacated required slot from the flexible
// zone. The first flexible occupant of the matching category moves into the
// vacated slot and its flexible slot is left empty for the next insertion.
// Vacated flexible or bench slots, and occupied positions, are left as is.
func RebalanceAfterRemoval(s Squad, vacated int) Squad {
	out := s.Clone()
	if vacated < 0 || vacated >= len(out.Slots) {
		return out
	}
	slot := out.Slots[vacated]
	if slot.Zone.Kind != ZoneRequired || !slot.Empty() {
		return out
	}

	for i, candidate := range out.Slots {
		if candidate.Zone.Kind != ZoneFlexible || candidate.Empty() {
			continue
		}
		if candidate.Occupant.Category == slot.Zone.Category {
			out.Slots[vacated].Occupant = candidate.Occupant
			out.Slots[i].Occupant = nil
			break
		}
	}
	return out
}

// RemovePlayer empties the slot holding playerID and returns the removed
// snapshot and its former position.
func RemovePlayer(s Squad, playerID string) (Squad, int, PlayerSnapshot, error) {
	pos, ok := s.Find(playerID)
	if !ok {
		return s, -1, PlayerSnapshot{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	out := s.Clone()
	removed := *out.Slots[pos].Occupant
	out.Slots[pos].Occupant = nil
	return out, pos, removed, nil
}

// InsertPlayer places p at its best insertion position.
func InsertPlayer(s Squad, p PlayerSnapshot) (Squad, int, error) {
	if !p.Category.Valid() {
		return s, -1, fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	if _, dup := s.Find(p.PlayerID); dup {
		return s, -1, fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.PlayerID)
	}
	pos, err := BestInsertionPosition(s, p.Category)
	if err != nil {
		return s, -1, err
	}
	out := s.Clone()
	incoming := p.Clone()
	out.Slots[pos].Occupant = &incoming
	return out, pos, nil
}

// PerformTransferSlotting removes outgoingID, rebalances, and inserts
// incoming. A starter may only be replaced inside the starting XI: when the
// incoming player would land on the bench, ErrNoInsertionSlot is returned.
// On any error the input squad is returned unchanged.
func PerformTransferSlotting(s Squad, outgoingID string, incoming PlayerSnapshot) (Squad, error) {
	if !incoming.Category.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidCategory, incoming.Category)
	}
	if incoming.PlayerID != outgoingID {
		if _, dup := s.Find(incoming.PlayerID); dup {
			return s, fmt.Errorf("%w: %s", ErrDuplicatePlayer, incoming.PlayerID)
		}
	}

	removed, vacated, _, err := RemovePlayer(s, outgoingID)
	if err != nil {
		return s, err
	}

	rebalanced := RebalanceAfterRemoval(removed, vacated)

	out, pos, err := InsertPlayer(rebalanced, incoming)
	if err != nil {
		return s, err
	}
	if s.Slots[vacated].Zone.Starting() && !out.Slots[pos].Zone.Starting() {
		return s, fmt.Errorf("%w: %s cannot fill a starting slot vacated by %s",
			ErrNoInsertionSlot, incoming.Category, s.Slots[vacated].Occupant.Category)
	}
	return out, nil
}

// BuildSquad lays out a squad for rules and places players in order, each at
// its best insertion position. Players join at their current score.
func BuildSquad(rules LeagueRules, players []PlayerSnapshot) (Squad, error) {
	ranges, err := ComputeSlotRanges(rules)
	if err != nil {
		return Squad{}, err
	}
	squad := NewSquad(ranges)
	for _, p := range players {
		squad, _, err = InsertPlayer(squad, p.JoinAt())
		if err != nil {
			return Squad{}, fmt.Errorf("place %s: %w", p.PlayerID, err)
		}
	}
	return squad, nil
}
