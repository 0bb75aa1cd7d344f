package orderbook

type Direction int

const (
	Down Direction = iota - 1
	Unchanged
	Up
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unchanged"
	}
}

func compare(a, b Value) Direction {
	return Direction(a.Cmp(b))
}

type Branch int

const (
	// BranchBaseline is the uncolored line printed after a snapshot.
	BranchBaseline Branch = iota
	// BranchPrice means a best price moved; prices are colored.
	BranchPrice
	// BranchVolume means only best sizes moved; sizes are colored.
	BranchVolume
)

// Change describes one side of the top of book across an update.
type Change struct {
	Old   Level
	New   Level
	Price Direction
	Size  Direction
}

// Decision is what a display needs to format one line.
type Decision struct {
	Branch   Branch
	ByVolume bool
	Bid      *Change
	Ask      *Change
}

type decisionKey struct {
	priceChanged bool
	sizeChanged  bool
	byVolume     bool
}

// Absent keys print nothing.
var decisionTable = map[decisionKey]Branch{
	{priceChanged: true, sizeChanged: false, byVolume: false}: BranchPrice,
	{priceChanged: true, sizeChanged: true, byVolume: false}:  BranchPrice,
	{priceChanged: true, sizeChanged: false, byVolume: true}:  BranchPrice,
	{priceChanged: true, sizeChanged: true, byVolume: true}:   BranchPrice,
	{priceChanged: false, sizeChanged: true, byVolume: true}:  BranchVolume,
}

// Decide compares the top of book before and after an update. It returns nil
// when either snapshot is one-sided or when nothing worth printing changed.
func Decide(before, after Top, byVolume bool) *Decision {
	if !before.TwoSided() || !after.TwoSided() {
		return nil
	}
	key := decisionKey{
		priceChanged: !before.Bid.Price.Equal(after.Bid.Price) || !before.Ask.Price.Equal(after.Ask.Price),
		sizeChanged:  !before.Bid.Size.Equal(after.Bid.Size) || !before.Ask.Size.Equal(after.Ask.Size),
		byVolume:     byVolume,
	}
	branch, ok := decisionTable[key]
	if !ok {
		return nil
	}
	return &Decision{
		Branch:   branch,
		ByVolume: byVolume,
		Bid: &Change{
			Old:   *before.Bid,
			New:   *after.Bid,
			Price: compare(after.Bid.Price, before.Bid.Price),
			Size:  compare(after.Bid.Size, before.Bid.Size),
		},
		// A growing ask size reads like a shrinking bid size, hence old vs new.
		Ask: &Change{
			Old:   *before.Ask,
			New:   *after.Ask,
			Price: compare(after.Ask.Price, before.Ask.Price),
			Size:  compare(before.Ask.Size, after.Ask.Size),
		},
	}
}

// Baseline builds the decision for the line printed after a snapshot. Sides
// that are empty are left nil.
func Baseline(top Top, byVolume bool) *Decision {
	d := &Decision{Branch: BranchBaseline, ByVolume: byVolume}
	if top.Bid != nil {
		d.Bid = &Change{Old: *top.Bid, New: *top.Bid}
	}
	if top.Ask != nil {
		d.Ask = &Change{Old: *top.Ask, New: *top.Ask}
	}
	return d
}
