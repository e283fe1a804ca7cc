package squaddomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeSlotRanges(t *testing.T) {
	got, err := ComputeSlotRanges(DefaultLeagueRules)
	if err != nil {
		t.Fatalf("ComputeSlotRanges() error = %v", err)
	}

	want := []SlotRange{
		{Zone: RequiredZone(CategoryBatsman), Start: 0, End: 3},
		{Zone: RequiredZone(CategoryBowler), Start: 3, End: 6},
		{Zone: RequiredZone(CategoryAllrounder), Start: 6, End: 7},
		{Zone: RequiredZone(CategoryWicketkeeper), Start: 7, End: 8},
		{Zone: FlexibleZone, Start: 8, End: 11},
		{Zone: BenchZone, Start: 11, End: 15},
	}
	if diff := cmp.Diff(want, got.Ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSlotRanges_EmptyFlexibleAndZeroMinimum(t *testing.T) {
	rules := LeagueRules{SquadSize: 5, MinBatsmen: 2, MinBowlers: 3}
	got, err := ComputeSlotRanges(rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flex, _ := got.Range(FlexibleZone)
	if flex.Len() != 0 {
		t.Errorf("flexible len = %d, want 0", flex.Len())
	}
	keepers, _ := got.Range(RequiredZone(CategoryWicketkeeper))
	if keepers.Len() != 0 {
		t.Errorf("wicketkeeper len = %d, want 0", keepers.Len())
	}
}

func TestComputeSlotRanges_ConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules LeagueRules
	}{
		{"minimums exceed squad", LeagueRules{SquadSize: 4, MinBatsmen: 3, MinBowlers: 3}},
		{"negative squad", LeagueRules{SquadSize: -1}},
		{"negative bench", LeagueRules{SquadSize: 11, BenchSize: -2}},
		{"negative minimum", LeagueRules{SquadSize: 11, MinBowlers: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeSlotRanges(tt.rules)
			if !errors.Is(err, ErrInvalidLeagueConfig) {
				t.Fatalf("expected ErrInvalidLeagueConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestSlotRanges_Classify(t *testing.T) {
	ranges, _ := ComputeSlotRanges(DefaultLeagueRules)
	tests := []struct {
		pos    int
		want   Zone
		wantOK bool
	}{
		{0, RequiredZone(CategoryBatsman), true},
		{5, RequiredZone(CategoryBowler), true},
		{6, RequiredZone(CategoryAllrounder), true},
		{7, RequiredZone(CategoryWicketkeeper), true},
		{10, FlexibleZone, true},
		{11, BenchZone, true},
		{15, Zone{}, false},
		{-1, Zone{}, false},
	}
	for _, tt := range tests {
		got, ok := ranges.Classify(tt.pos)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Classify(%d) = %v,%v want %v,%v", tt.pos, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseZone_RoundTrip(t *testing.T) {
	for _, z := range []Zone{RequiredZone(CategoryAllrounder), FlexibleZone, BenchZone} {
		got, err := ParseZone(z.String())
		if err != nil || got != z {
			t.Errorf("ParseZone(%q) = %v, %v", z.String(), got, err)
		}
	}
	if _, err := ParseZone("required:umpire"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := ParseZone("dugout"); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestBestInsertionPosition(t *testing.T) {
	tests := []struct {
		name     string
		empty    []int
		category Category
		want     int
		wantErr  error
	}{
		{"required slot preferred", []int{1, 9}, CategoryBatsman, 1, nil},
		{"flexible when required full", []int{9}, CategoryBatsman, 9, nil},
		{"first flexible chosen", []int{8, 10}, CategoryWicketkeeper, 8, nil},
		{"bench when starting full", []int{13}, CategoryBowler, 13, nil},
		{"other category required slot skipped", []int{4, 12}, CategoryBatsman, 12, nil},
		{"no room", nil, CategoryBowler, -1, ErrNoInsertionSlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			squad := defaultSquad(t)
			for _, pos := range tt.empty {
				squad.Slots[pos].Occupant = nil
			}
			got, err := BestInsertionPosition(squad, tt.category)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BestInsertionPosition() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRebalanceAfterRemoval(t *testing.T) {
	t.Run("flexible batsman fills vacated required slot", func(t *testing.T) {
		squad := defaultSquad(t)
		squad.Slots[1].Occupant = nil

		got := RebalanceAfterRemoval(squad, 1)

		if got.Slots[1].Occupant == nil || got.Slots[1].Occupant.PlayerID != "p08" {
			t.Fatalf("slot 1 = %+v, want p08", got.Slots[1].Occupant)
		}
		if got.Slots[8].Occupant != nil {
			t.Errorf("flexible slot 8 should be empty, got %+v", got.Slots[8].Occupant)
		}
		if squad.Slots[8].Occupant == nil {
			t.Error("input squad was mutated")
		}
	})

	t.Run("no same-category flexible player leaves hole", func(t *testing.T) {
		squad := defaultSquad(t)
		squad.Slots[7].Occupant = nil

		got := RebalanceAfterRemoval(squad, 7)
		if diff := cmp.Diff(squad, got); diff != "" {
			t.Errorf("squad changed (-want +got):\n%s", diff)
		}
	})

	t.Run("vacated flexible slot is not rebalanced", func(t *testing.T) {
		squad := defaultSquad(t)
		squad.Slots[9].Occupant = nil

		got := RebalanceAfterRemoval(squad, 9)
		if diff := cmp.Diff(squad, got); diff != "" {
			t.Errorf("squad changed (-want +got):\n%s", diff)
		}
	})

	t.Run("bench players never move", func(t *testing.T) {
		squad := defaultSquad(t)
		squad.Slots[3].Occupant = nil
		squad.Slots[9].Occupant = nil // remove the flexible bowler

		got := RebalanceAfterRemoval(squad, 3)
		if got.Slots[3].Occupant != nil {
			t.Errorf("bench bowler promoted into slot 3: %+v", got.Slots[3].Occupant)
		}
	})
}

func TestPerformTransferSlotting(t *testing.T) {
	t.Run("outgoing not found leaves squad untouched", func(t *testing.T) {
		squad := defaultSquad(t)
		got, err := PerformTransferSlotting(squad, "ghost", player("new", CategoryBatsman, 0, nil, nil))
		if !errors.Is(err, ErrPlayerNotFound) {
			t.Fatalf("expected ErrPlayerNotFound, got %v", err)
		}
		if err.Error() != "player to remove not found: ghost" {
			t.Errorf("error text = %q", err.Error())
		}
		if diff := cmp.Diff(squad, got); diff != "" {
			t.Errorf("squad changed (-want +got):\n%s", diff)
		}
	})

	t.Run("required removal rebalances before insertion", func(t *testing.T) {
		squad := defaultSquad(t)
		got, err := PerformTransferSlotting(squad, "p00", player("new", CategoryBowler, 10, Float(10), nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// p08 (flexible batsman) moves into slot 0, the bowler takes flexible slot 8.
		if got.Slots[0].Occupant.PlayerID != "p08" {
			t.Errorf("slot 0 = %s, want p08", got.Slots[0].Occupant.PlayerID)
		}
		if got.Slots[8].Occupant.PlayerID != "new" {
			t.Errorf("slot 8 = %s, want new", got.Slots[8].Occupant.PlayerID)
		}
		if len(got.StartingXI()) != 11 {
			t.Errorf("starting XI has %d players, want 11", len(got.StartingXI()))
		}
	})

	t.Run("duplicate incoming rejected", func(t *testing.T) {
		squad := defaultSquad(t)
		_, err := PerformTransferSlotting(squad, "p00", player("p05", CategoryBowler, 0, nil, nil))
		if !errors.Is(err, ErrDuplicatePlayer) {
			t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
		}
	})

	t.Run("starter cannot be replaced from a free bench seat", func(t *testing.T) {
		squad := defaultSquad(t)
		squad.Slots[14].Occupant = nil

		got, err := PerformTransferSlotting(squad, "p07", player("new", CategoryBowler, 0, nil, nil))
		if !errors.Is(err, ErrNoInsertionSlot) {
			t.Fatalf("expected ErrNoInsertionSlot, got %v", err)
		}
		if diff := cmp.Diff(squad, got); diff != "" {
			t.Errorf("squad changed (-want +got):\n%s", diff)
		}
	})

	t.Run("bench player replaced on the bench", func(t *testing.T) {
		squad := defaultSquad(t)
		got, err := PerformTransferSlotting(squad, "p12", player("new", CategoryBowler, 0, nil, nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Slots[12].Occupant.PlayerID != "new" {
			t.Errorf("slot 12 = %s, want new", got.Slots[12].Occupant.PlayerID)
		}
		if len(got.StartingXI()) != 11 {
			t.Errorf("starting XI has %d players, want 11", len(got.StartingXI()))
		}
	})

	t.Run("invalid category rejected", func(t *testing.T) {
		squad := defaultSquad(t)
		_, err := PerformTransferSlotting(squad, "p00", player("x", Category("umpire"), 0, nil, nil))
		if !errors.Is(err, ErrInvalidCategory) {
			t.Fatalf("expected ErrInvalidCategory, got %v", err)
		}
	})
}

func TestSlotIdempotence(t *testing.T) {
	// Remove the only wicketkeeper from its required slot and put them back.
	squad := defaultSquad(t)
	keeper := *squad.Slots[7].Occupant

	removed, vacated, _, err := RemovePlayer(squad, keeper.PlayerID)
	if err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	rebalanced := RebalanceAfterRemoval(removed, vacated)
	restored, pos, err := InsertPlayer(rebalanced, keeper)
	if err != nil {
		t.Fatalf("InsertPlayer: %v", err)
	}

	if pos != 7 {
		t.Errorf("reinserted at %d, want 7", pos)
	}
	if diff := cmp.Diff(squad, restored); diff != "" {
		t.Errorf("squad drifted (-want +got):\n%s", diff)
	}
}

func TestBuildSquad(t *testing.T) {
	players := []PlayerSnapshot{
		player("b1", CategoryBatsman, 10, nil, nil),
		player("k1", CategoryWicketkeeper, 20, nil, nil),
		player("k2", CategoryWicketkeeper, 30, nil, nil),
	}
	squad, err := BuildSquad(DefaultLeagueRules, players)
	if err != nil {
		t.Fatalf("BuildSquad: %v", err)
	}

	if squad.Slots[0].Occupant.PlayerID != "b1" || squad.Slots[7].Occupant.PlayerID != "k1" || squad.Slots[8].Occupant.PlayerID != "k2" {
		t.Errorf("unexpected layout: %+v", squad.Players())
	}
	if got := *squad.Slots[8].Occupant.PointsAtJoining; got != 30 {
		t.Errorf("k2 joined at %v, want 30", got)
	}
}

func TestSquadFromSlots(t *testing.T) {
	squad := defaultSquad(t)

	got, err := SquadFromSlots(squad.Slots)
	if err != nil {
		t.Fatalf("SquadFromSlots: %v", err)
	}
	if diff := cmp.Diff(squad, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	dup := squad.Clone()
	p := *dup.Slots[0].Occupant
	dup.Slots[12].Occupant = &p
	if _, err := SquadFromSlots(dup.Slots); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("expected ErrDuplicatePlayer, got %v", err)
	}

	bad := squad.Clone()
	bad.Slots[12].Zone = FlexibleZone
	if _, err := SquadFromSlots(bad.Slots); err == nil {
		t.Error("expected error for starting slot after bench")
	}
}
