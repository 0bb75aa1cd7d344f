package orderbook

import (
	rbt "github.com/emirpasic/gods/trees/redblacktree"
	"github.com/samber/lo"
)

// Book mirrors one pair's order book. Both trees are ordered best-first, so
// the leftmost node of each is the top of book. No stored size is ever zero.
type Book struct {
	Bids *rbt.Tree
	Asks *rbt.Tree
}

func NewBook() *Book {
	return &Book{
		Bids: rbt.NewWith(BidComparator),
		Asks: rbt.NewWith(AskComparator),
	}
}

func (b *Book) tree(side Side) *rbt.Tree {
	if side == Bid {
		return b.Bids
	}
	return b.Asks
}

// ApplySnapshot replaces the whole book. Zero-size levels are not stored; the
// number dropped is returned.
func (b *Book) ApplySnapshot(bids, asks []Level) int {
	b.Bids.Clear()
	b.Asks.Clear()
	dropped := 0
	for side, levels := range map[Side][]Level{Bid: bids, Ask: asks} {
		resting := lo.Filter(levels, func(l Level, _ int) bool { return !l.Size.IsZero() })
		dropped += len(levels) - len(resting)
		tree := b.tree(side)
		for _, l := range resting {
			tree.Put(l.Price, l.Size)
		}
	}
	return dropped
}

// ApplyUpdate applies deltas to one side in order.
func (b *Book) ApplyUpdate(side Side, levels []Level) {
	tree := b.tree(side)
	for _, l := range levels {
		if l.Size.IsZero() {
			tree.Remove(l.Price)
		} else {
			tree.Put(l.Price, l.Size)
		}
	}
}

func (b *Book) BestBid() (Level, bool) {
	return best(b.Bids)
}

func (b *Book) BestAsk() (Level, bool) {
	return best(b.Asks)
}

func best(tree *rbt.Tree) (Level, bool) {
	node := tree.Left()
	if node == nil {
		return Level{}, false
	}
	return Level{Price: node.Key.(Value), Size: node.Value.(Value)}, true
}

// Top returns the current best levels of both sides.
func (b *Book) Top() Top {
	var t Top
	if l, ok := b.BestBid(); ok {
		t.Bid = &l
	}
	if l, ok := b.BestAsk(); ok {
		t.Ask = &l
	}
	return t
}

// Levels lists one side best-first.
func (b *Book) Levels(side Side) []Level {
	tree := b.tree(side)
	levels := make([]Level, 0, tree.Size())
	it := tree.Iterator()
	for it.Next() {
		levels = append(levels, Level{Price: it.Key().(Value), Size: it.Value().(Value)})
	}
	return levels
}

func (b *Book) Len(side Side) int {
	return b.tree(side).Size()
}

func AskComparator(a, b interface{}) int {
	return a.(Value).Cmp(b.(Value))
}

func BidComparator(a, b interface{}) int {
	return b.(Value).Cmp(a.(Value))
}
