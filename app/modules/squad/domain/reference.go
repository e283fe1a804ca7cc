package squaddomain

// ReferenceSource says where a resolved role reference point came from.
type ReferenceSource int

const (
	// ReferenceRecorded means PointsWhenRoleAssigned was stored on the snapshot.
	ReferenceRecorded ReferenceSource = iota
	// ReferenceFromJoining means the role timestamp was absent and the joining
	// score stands in for it.
	ReferenceFromJoining
	// ReferenceFromZero means both fields were absent.
	ReferenceFromZero
)

func (s ReferenceSource) String() string {
	switch s {
	case ReferenceRecorded:
		return "recorded"
	case ReferenceFromJoining:
		return "defaulted-from-joining"
	case ReferenceFromZero:
		return "defaulted-from-zero"
	}
	return "unknown"
}

// ReferencePoints are the two anchors the contribution formula measures from.
type ReferencePoints struct {
	Joined   float64
	Assigned float64

	JoinedRecorded bool
	Source         ReferenceSource
}

// ResolveReferencePoints reconstructs the joining and role-assignment anchors
// for a player. The four combinations of present and absent fields resolve as:
//
//	joining  role      Joined   Assigned  Source
//	present  present   joining  role      recorded
//	present  absent    joining  joining   defaulted-from-joining
//	absent   present   0        role      recorded
//	absent   absent    0        0         defaulted-from-zero
func ResolveReferencePoints(p PlayerSnapshot) ReferencePoints {
	ref := ReferencePoints{}

	if p.PointsAtJoining != nil {
		ref.Joined = *p.PointsAtJoining
		ref.JoinedRecorded = true
	}

	switch {
	case p.PointsWhenRoleAssigned != nil:
		ref.Assigned = *p.PointsWhenRoleAssigned
		ref.Source = ReferenceRecorded
	case ref.JoinedRecorded:
		ref.Assigned = ref.Joined
		ref.Source = ReferenceFromJoining
	default:
		ref.Assigned = 0
		ref.Source = ReferenceFromZero
	}

	return ref
}
